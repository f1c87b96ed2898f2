// Package storage persists the scheduling state machine's bookkeeping:
//   - the set of group ids with registered alarms (rebuilt every run)
//   - differential tracker snapshots (marketplace, animal health, island shop)
//   - the last scheduled auction
package storage
