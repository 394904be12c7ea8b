// Package services implements the application use cases on top of the
// processing core and the session store: ingesting uploaded batches
// into per-ticket snapshots and assembling report documents from stored
// tables. Handlers stay thin; every decision lives here or below.
package services
