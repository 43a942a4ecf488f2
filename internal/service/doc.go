// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the store
// interfaces to fulfill application features: authentication, user lookup,
// post and comment management, and the welcome email trigger.
//
// Services receive their dependencies through constructor injection and
// apply transactional boundaries when an operation spans multiple store
// calls. Ownership checks delegate to the policy package; a denied mutation
// surfaces as ErrNotOwned, which the API layer maps to HTTP 403.
package service
