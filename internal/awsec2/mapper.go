package awsec2

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/fleetops/cpi-aws/pkg/cpi"
)

// The mapping functions are pure and total: absent or unrecognized native
// fields become the canonical Unknown/zero values, and every native field
// outside the canonical shape is dropped.

func mapWorkerState(s ec2types.InstanceStateName) cpi.WorkerState {
	switch s {
	case ec2types.InstanceStateNamePending:
		return cpi.WorkerPending
	case ec2types.InstanceStateNameRunning:
		return cpi.WorkerRunning
	case ec2types.InstanceStateNameStopping, ec2types.InstanceStateNameShuttingDown:
		return cpi.WorkerStopping
	case ec2types.InstanceStateNameStopped:
		return cpi.WorkerStopped
	case ec2types.InstanceStateNameTerminated:
		return cpi.WorkerTerminated
	default:
		return cpi.WorkerUnknown
	}
}

func mapVolumeState(s ec2types.VolumeState) cpi.VolumeState {
	switch s {
	case ec2types.VolumeStateCreating:
		return cpi.VolumeCreating
	case ec2types.VolumeStateAvailable:
		return cpi.VolumeAvailable
	case ec2types.VolumeStateInUse:
		return cpi.VolumeInUse
	case ec2types.VolumeStateDeleting, ec2types.VolumeStateDeleted:
		return cpi.VolumeDeleting
	default:
		return cpi.VolumeUnknown
	}
}

func mapSnapshotState(s ec2types.SnapshotState) cpi.SnapshotState {
	switch s {
	case ec2types.SnapshotStatePending:
		return cpi.SnapshotPending
	case ec2types.SnapshotStateCompleted:
		return cpi.SnapshotCompleted
	case ec2types.SnapshotStateError:
		return cpi.SnapshotError
	default:
		return cpi.SnapshotUnknown
	}
}

func mapTags(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key == nil {
			continue
		}
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}

// MapWorker converts one native instance record.
func MapWorker(inst ec2types.Instance, region string) cpi.Worker {
	w := cpi.Worker{
		ID:     aws.ToString(inst.InstanceId),
		State:  cpi.WorkerUnknown,
		Region: region,
		Tags:   mapTags(inst.Tags),
	}
	if inst.State != nil {
		w.State = mapWorkerState(inst.State.Name)
	}
	return w
}

// MapWorkers flattens a DescribeInstances response. Records without an
// instance id are skipped.
func MapWorkers(out *ec2.DescribeInstancesOutput, region string) []cpi.Worker {
	var workers []cpi.Worker
	if out == nil {
		return workers
	}
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			if inst.InstanceId == nil {
				continue
			}
			workers = append(workers, MapWorker(inst, region))
		}
	}
	return workers
}

// MapVolume converts one native volume record, enforcing the canonical
// invariant: AttachedTo is set if and only if the state is in-use.
func MapVolume(vol ec2types.Volume, region string) cpi.Volume {
	v := cpi.Volume{
		ID:     aws.ToString(vol.VolumeId),
		SizeGB: aws.ToInt32(vol.Size),
		State:  mapVolumeState(vol.State),
		Region: region,
	}

	for _, att := range vol.Attachments {
		if att.State == ec2types.VolumeAttachmentStateAttached ||
			att.State == ec2types.VolumeAttachmentStateAttaching {
			v.AttachedTo = aws.ToString(att.InstanceId)
			break
		}
	}

	if v.State != cpi.VolumeInUse {
		v.AttachedTo = ""
	} else if v.AttachedTo == "" {
		// in-use with no visible attachment: report Unknown rather than
		// break the attached-iff-in-use invariant
		v.State = cpi.VolumeUnknown
	}
	return v
}

// MapVolumes flattens a DescribeVolumes response. Records without a volume
// id are skipped.
func MapVolumes(out *ec2.DescribeVolumesOutput, region string) []cpi.Volume {
	var volumes []cpi.Volume
	if out == nil {
		return volumes
	}
	for _, vol := range out.Volumes {
		if vol.VolumeId == nil {
			continue
		}
		volumes = append(volumes, MapVolume(vol, region))
	}
	return volumes
}

// MapCreatedVolume converts the CreateVolume response, which carries the
// volume fields inline rather than a nested record.
func MapCreatedVolume(out *ec2.CreateVolumeOutput, region string) cpi.Volume {
	if out == nil {
		return cpi.Volume{State: cpi.VolumeUnknown, Region: region}
	}
	return cpi.Volume{
		ID:     aws.ToString(out.VolumeId),
		SizeGB: aws.ToInt32(out.Size),
		State:  mapVolumeState(out.State),
		Region: region,
	}
}

// MapSnapshot converts one native snapshot record.
func MapSnapshot(snap ec2types.Snapshot, region string) cpi.Snapshot {
	return cpi.Snapshot{
		ID:             aws.ToString(snap.SnapshotId),
		SourceVolumeID: aws.ToString(snap.VolumeId),
		State:          mapSnapshotState(snap.State),
		Region:         region,
	}
}

// MapCreatedSnapshot converts the CreateSnapshot response, which carries the
// snapshot fields inline.
func MapCreatedSnapshot(out *ec2.CreateSnapshotOutput, region string) cpi.Snapshot {
	if out == nil {
		return cpi.Snapshot{State: cpi.SnapshotUnknown, Region: region}
	}
	return cpi.Snapshot{
		ID:             aws.ToString(out.SnapshotId),
		SourceVolumeID: aws.ToString(out.VolumeId),
		State:          mapSnapshotState(out.State),
		Region:         region,
	}
}

// MapStateChange converts the instance state transition returned by start,
// stop and terminate calls into a Worker view. Tags are not part of the
// transition record, so the view carries none.
func MapStateChange(change ec2types.InstanceStateChange, region string) cpi.Worker {
	w := cpi.Worker{
		ID:     aws.ToString(change.InstanceId),
		State:  cpi.WorkerUnknown,
		Region: region,
	}
	if change.CurrentState != nil {
		w.State = mapWorkerState(change.CurrentState.Name)
	}
	return w
}

// MapAttachment builds a best-effort Volume view from an AttachVolume
// response, used when the follow-up describe after an attach fails.
func MapAttachment(out *ec2.AttachVolumeOutput, region string) cpi.Volume {
	if out == nil {
		return cpi.Volume{State: cpi.VolumeUnknown, Region: region}
	}
	v := cpi.Volume{
		ID:     aws.ToString(out.VolumeId),
		State:  cpi.VolumeUnknown,
		Region: region,
	}
	switch out.State {
	case ec2types.VolumeAttachmentStateAttached, ec2types.VolumeAttachmentStateAttaching:
		v.State = cpi.VolumeInUse
		v.AttachedTo = aws.ToString(out.InstanceId)
	case ec2types.VolumeAttachmentStateDetached, ec2types.VolumeAttachmentStateDetaching:
		v.State = cpi.VolumeAvailable
	}
	return v
}

// MapDetachment builds a best-effort Volume view from a DetachVolume
// response, used when the follow-up describe after a detach fails.
func MapDetachment(out *ec2.DetachVolumeOutput, region string) cpi.Volume {
	if out == nil {
		return cpi.Volume{State: cpi.VolumeUnknown, Region: region}
	}
	v := cpi.Volume{
		ID:     aws.ToString(out.VolumeId),
		State:  cpi.VolumeUnknown,
		Region: region,
	}
	switch out.State {
	case ec2types.VolumeAttachmentStateDetached, ec2types.VolumeAttachmentStateDetaching:
		v.State = cpi.VolumeAvailable
	case ec2types.VolumeAttachmentStateAttached, ec2types.VolumeAttachmentStateAttaching:
		v.State = cpi.VolumeInUse
		v.AttachedTo = aws.ToString(out.InstanceId)
	}
	return v
}
