// Package device implements the panic-button domain for Sentinel Core:
// the device registry, the append-only event ledger, and the liveness
// monitor.
//
// The registry owns device lifecycle (register, delete, resolve alarm).
// All other state mutation flows through the ledger: recording a report
// updates the device row and appends an event row in one transaction,
// so the ledger never shows an event the device state does not reflect.
//
// The events table deliberately has no foreign key to devices: events
// are historical record and outlive deleted devices. The transactional
// write path in Ledger.Record is what prevents orphan events for
// devices that never existed.
//
// Liveness is eventually consistent. A device is marked offline by the
// sweep, not at read time, so a silent device appears online until the
// next sweep. The sweep's single conditional UPDATE makes it safe to
// run concurrently with ingestion.
package device
