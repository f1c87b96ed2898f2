// Package track holds the differential detectors: changes that only exist
// between two snapshots, like a listing getting sold or an animal falling
// sick. Each detector takes the previous persisted state and returns the
// events plus the next state to persist; the next state always reflects every
// entity seen in the current snapshot, so vanished entities drop out.
package track
