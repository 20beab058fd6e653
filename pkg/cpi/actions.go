package cpi

// Action names form the fixed, case-sensitive CPI vocabulary. Every action
// additionally accepts an optional "region" parameter overriding the
// process-wide default.
const (
	ActionTestInstall       = "test_install"
	ActionListWorkers       = "list_workers"
	ActionCreateWorker      = "create_worker"
	ActionDeleteWorker      = "delete_worker"
	ActionGetWorker         = "get_worker"
	ActionHasWorker         = "has_worker"
	ActionStartWorker       = "start_worker"
	ActionRebootWorker      = "reboot_worker"
	ActionGetVolumes        = "get_volumes"
	ActionHasVolume         = "has_volume"
	ActionCreateVolume      = "create_volume"
	ActionDeleteVolume      = "delete_volume"
	ActionAttachVolume      = "attach_volume"
	ActionDetachVolume      = "detach_volume"
	ActionSnapshotVolume    = "snapshot_volume"
	ActionCreateSnapshot    = "create_snapshot"
	ActionDeleteSnapshot    = "delete_snapshot"
	ActionHasSnapshot       = "has_snapshot"
	ActionSetWorkerMetadata = "set_worker_metadata"
)

// ParamSpec describes one parameter of an action definition.
type ParamSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"` // "string", "int", "bool", "map"
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// ActionDefinition is host-facing metadata for one vocabulary member.
type ActionDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []ParamSpec `json:"parameters"`
}

var regionParam = ParamSpec{
	Name:        "region",
	Description: "Region override for this call",
	Type:        "string",
}

var definitions = []ActionDefinition{
	{
		Name:        ActionTestInstall,
		Description: "Verify credentials and region configuration with a side-effect-free call",
		Parameters:  []ParamSpec{regionParam},
	},
	{
		Name:        ActionListWorkers,
		Description: "List all compute workers",
		Parameters:  []ParamSpec{regionParam},
	},
	{
		Name:        ActionCreateWorker,
		Description: "Launch a new compute worker",
		Parameters: []ParamSpec{
			{Name: "ami", Description: "Machine image identifier, falling back to the configured default image", Type: "string", Default: "ami-0c55b159cbfafe1f0"},
			{Name: "instance_type", Description: "Instance type, falling back to the configured default", Type: "string", Default: "t2.micro"},
			{Name: "worker_name", Description: "Name tag applied at launch", Type: "string"},
			{Name: "tags", Description: "Additional tags applied after launch", Type: "map"},
			{Name: "wait", Description: "Wait for the worker to reach the running state", Type: "bool"},
			regionParam,
		},
	},
	{
		Name:        ActionDeleteWorker,
		Description: "Terminate a compute worker (idempotent if already terminated)",
		Parameters: []ParamSpec{
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionGetWorker,
		Description: "Fetch one compute worker",
		Parameters: []ParamSpec{
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionHasWorker,
		Description: "Check whether a compute worker exists",
		Parameters: []ParamSpec{
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionStartWorker,
		Description: "Start a stopped compute worker",
		Parameters: []ParamSpec{
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionRebootWorker,
		Description: "Reboot a compute worker",
		Parameters: []ParamSpec{
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionGetVolumes,
		Description: "List all block volumes",
		Parameters:  []ParamSpec{regionParam},
	},
	{
		Name:        ActionHasVolume,
		Description: "Check whether a block volume exists",
		Parameters: []ParamSpec{
			{Name: "volume_id", Description: "Volume identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionCreateVolume,
		Description: "Create a new block volume",
		Parameters: []ParamSpec{
			{Name: "size_gb", Description: "Volume size in GB", Type: "int", Required: true},
			{Name: "availability_zone", Description: "Availability zone", Type: "string", Required: true},
			{Name: "volume_type", Description: "Volume type", Type: "string", Default: "gp2"},
			regionParam,
		},
	},
	{
		Name:        ActionDeleteVolume,
		Description: "Delete a block volume",
		Parameters: []ParamSpec{
			{Name: "volume_id", Description: "Volume identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionAttachVolume,
		Description: "Attach a block volume to a compute worker",
		Parameters: []ParamSpec{
			{Name: "volume_id", Description: "Volume identifier", Type: "string", Required: true},
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			{Name: "device_name", Description: "Device path, e.g. /dev/sdf", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionDetachVolume,
		Description: "Detach a block volume from its worker",
		Parameters: []ParamSpec{
			{Name: "volume_id", Description: "Volume identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionSnapshotVolume,
		Description: "Create a point-in-time snapshot of a volume",
		Parameters: []ParamSpec{
			{Name: "volume_id", Description: "Source volume identifier", Type: "string", Required: true},
			{Name: "snapshot_name", Description: "Name tag for the snapshot", Type: "string"},
			regionParam,
		},
	},
	{
		Name:        ActionCreateSnapshot,
		Description: "Create a point-in-time snapshot of a volume",
		Parameters: []ParamSpec{
			{Name: "volume_id", Description: "Source volume identifier", Type: "string", Required: true},
			{Name: "snapshot_name", Description: "Name tag for the snapshot", Type: "string"},
			regionParam,
		},
	},
	{
		Name:        ActionDeleteSnapshot,
		Description: "Delete a snapshot",
		Parameters: []ParamSpec{
			{Name: "snapshot_id", Description: "Snapshot identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionHasSnapshot,
		Description: "Check whether a snapshot exists",
		Parameters: []ParamSpec{
			{Name: "snapshot_id", Description: "Snapshot identifier", Type: "string", Required: true},
			regionParam,
		},
	},
	{
		Name:        ActionSetWorkerMetadata,
		Description: "Apply metadata tags to a compute worker",
		Parameters: []ParamSpec{
			{Name: "worker_id", Description: "Worker identifier", Type: "string", Required: true},
			{Name: "metadata", Description: "Tag key to value mapping", Type: "map", Required: true},
			regionParam,
		},
	},
}

// Definitions returns the full action vocabulary with parameter metadata.
// The returned slice is a copy; callers may reorder it freely.
func Definitions() []ActionDefinition {
	out := make([]ActionDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// Definition returns the metadata for one action, or false if the name is not
// part of the vocabulary.
func Definition(name string) (ActionDefinition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return ActionDefinition{}, false
}

// IsKnownAction reports whether name is a member of the fixed vocabulary.
func IsKnownAction(name string) bool {
	_, ok := Definition(name)
	return ok
}
