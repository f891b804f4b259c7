// Command encore discovers new releases for artists in a beets music catalog
// and pushes one notification per release. It is designed to run from cron;
// `encore run` performs one complete discovery pass.
package main
