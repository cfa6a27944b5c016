// Package resilience retries store connection attempts with exponential
// backoff. Database and Redis components use it so a store that is still
// starting (a container in CI, a restarting server) does not fail a
// fixture run outright.
package resilience
