// Package api contains the HTTP layer: request models, handlers, resource
// serializers and the router. Handlers follow one pipeline: decode the body,
// validate it, call the service, serialize the result. Validation failures
// produce 422 bodies with a per-field error map; every other error is mapped
// to a status code and a fixed message, with details kept in the logs.
package api
