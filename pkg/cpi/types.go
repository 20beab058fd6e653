package cpi

// WorkerState is the canonical lifecycle state of a compute instance.
type WorkerState string

const (
	WorkerPending    WorkerState = "pending"
	WorkerRunning    WorkerState = "running"
	WorkerStopping   WorkerState = "stopping"
	WorkerStopped    WorkerState = "stopped"
	WorkerTerminated WorkerState = "terminated"
	WorkerUnknown    WorkerState = "unknown"
)

// VolumeState is the canonical lifecycle state of a block volume.
type VolumeState string

const (
	VolumeCreating  VolumeState = "creating"
	VolumeAvailable VolumeState = "available"
	VolumeInUse     VolumeState = "in-use"
	VolumeDeleting  VolumeState = "deleting"
	VolumeUnknown   VolumeState = "unknown"
)

// SnapshotState is the canonical lifecycle state of a volume snapshot.
type SnapshotState string

const (
	SnapshotPending   SnapshotState = "pending"
	SnapshotCompleted SnapshotState = "completed"
	SnapshotError     SnapshotState = "error"
	SnapshotUnknown   SnapshotState = "unknown"
)

// Worker is the canonical representation of a backend compute instance.
// ID is immutable once assigned and identifies exactly one backend resource
// for its lifetime.
type Worker struct {
	ID     string            `json:"id"`
	State  WorkerState       `json:"state"`
	Region string            `json:"region"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Name returns the conventional Name tag, or empty if the worker is untagged.
func (w Worker) Name() string {
	return w.Tags["Name"]
}

// Volume is the canonical representation of a backend block-storage resource.
// AttachedTo is set if and only if State is VolumeInUse; a volume attaches to
// at most one worker at a time.
type Volume struct {
	ID         string      `json:"id"`
	SizeGB     int32       `json:"size_gb"`
	State      VolumeState `json:"state"`
	AttachedTo string      `json:"attached_to,omitempty"`
	Region     string      `json:"region"`
}

// Snapshot is a canonical point-in-time copy of a Volume. Immutable once
// State is SnapshotCompleted.
type Snapshot struct {
	ID             string        `json:"id"`
	SourceVolumeID string        `json:"source_volume_id"`
	State          SnapshotState `json:"state"`
	Region         string        `json:"region"`
}
