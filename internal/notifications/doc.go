// Package notifications holds the outward-facing collaborators of a discovery
// run: the ntfy push notifier and the healthchecks.io liveness pinger. Both
// degrade to no-ops when unconfigured so a bare setup still runs.
package notifications
