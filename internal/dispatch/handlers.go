package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetops/cpi-aws/internal/awsec2"
	"github.com/fleetops/cpi-aws/internal/params"
	"github.com/fleetops/cpi-aws/pkg/cpi"
	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

// Handlers validate their parameters before resolving the backend session,
// so a malformed request produces zero backend calls and zero side effects.

func (d *Dispatcher) testInstall(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	if err := be.Ping(ctx); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(nil)
}

func (d *Dispatcher) listWorkers(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.DescribeInstances(ctx)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(awsec2.MapWorkers(out, be.Region()))
}

func (d *Dispatcher) getWorker(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.DescribeInstances(ctx, id)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	workers := awsec2.MapWorkers(out, be.Region())
	if len(workers) == 0 {
		return cpi.Failure(cpierrors.Newf(cpierrors.KindNotFound, "worker %s not found", id))
	}
	return cpi.Success(workers[0])
}

func (d *Dispatcher) hasWorker(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.DescribeInstances(ctx, id)
	if err != nil {
		if awsec2.IsNotFound(err) {
			return cpi.Success(false)
		}
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(len(awsec2.MapWorkers(out, be.Region())) > 0)
}

func (d *Dispatcher) createWorker(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	ami, err := params.OptString(bag, "ami", d.cfg.Defaults.AMI)
	if err != nil {
		return cpi.Failure(err)
	}
	if ami == "" {
		return cpi.Failure(cpierrors.New(cpierrors.KindInvalidParameters,
			"missing required parameter \"ami\" and no default image is configured"))
	}
	instanceType, err := params.OptString(bag, "instance_type", d.cfg.Defaults.InstanceType)
	if err != nil {
		return cpi.Failure(err)
	}
	if instanceType == "" {
		return cpi.Failure(cpierrors.New(cpierrors.KindInvalidParameters,
			"missing required parameter \"instance_type\" and no default is configured"))
	}
	name, err := params.OptString(bag, "worker_name", "")
	if err != nil {
		return cpi.Failure(err)
	}
	tags, err := params.OptStringMap(bag, "tags")
	if err != nil {
		return cpi.Failure(err)
	}
	wait, err := params.OptBool(bag, "wait", d.cfg.Wait.Enabled)
	if err != nil {
		return cpi.Failure(err)
	}

	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	// Step 1: launch. A failure here is fatal, nothing was created.
	out, err := be.RunInstance(ctx, ami, instanceType, name)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	if out == nil || len(out.Instances) == 0 || out.Instances[0].InstanceId == nil {
		return cpi.Failure(cpierrors.New(cpierrors.KindUnknownBackend, "launch returned no instance"))
	}
	worker := awsec2.MapWorker(out.Instances[0], be.Region())

	// From here on the instance exists; later-step failures surface as
	// warnings on a partial success, never as an overall failure.

	// Step 2: bounded wait for the running state.
	if wait {
		running, werr := d.waitRunning(ctx, be, worker.ID)
		if werr != nil {
			return cpi.PartialSuccess(worker,
				fmt.Sprintf("worker %s launched but did not reach running state: %v", worker.ID, awsec2.Classify(werr)))
		}
		worker = running
	}

	// Step 3: tag application.
	if len(tags) > 0 {
		if terr := be.TagResource(ctx, worker.ID, tags); terr != nil {
			return cpi.PartialSuccess(worker,
				fmt.Sprintf("worker %s launched but tagging failed: %v", worker.ID, awsec2.Classify(terr)))
		}
		if worker.Tags == nil {
			worker.Tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			worker.Tags[k] = v
		}
	}

	return cpi.Success(worker)
}

// waitRunning polls the instance state until it reaches running, the poll
// ceiling elapses, or the context is canceled. The ceiling is a hard bound;
// the poll never runs unbounded.
func (d *Dispatcher) waitRunning(ctx context.Context, be Backend, id string) (cpi.Worker, error) {
	deadline := time.Now().Add(d.cfg.Wait.Timeout)
	ticker := time.NewTicker(d.cfg.Wait.PollInterval)
	defer ticker.Stop()

	for {
		out, err := be.DescribeInstances(ctx, id)
		if err != nil {
			return cpi.Worker{}, err
		}
		workers := awsec2.MapWorkers(out, be.Region())
		if len(workers) > 0 {
			switch workers[0].State {
			case cpi.WorkerRunning:
				return workers[0], nil
			case cpi.WorkerTerminated:
				return cpi.Worker{}, cpierrors.Newf(cpierrors.KindConflict,
					"worker %s terminated while waiting for running state", id)
			}
		}

		if time.Now().After(deadline) {
			return cpi.Worker{}, cpierrors.Newf(cpierrors.KindUnknownBackend,
				"timed out after %s waiting for worker %s to reach running state", d.cfg.Wait.Timeout, id)
		}

		select {
		case <-ctx.Done():
			return cpi.Worker{}, cpierrors.Wrap(cpierrors.KindUnknownBackend, ctx.Err(),
				"canceled while waiting for running state")
		case <-ticker.C:
		}
	}
}

func (d *Dispatcher) deleteWorker(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	// EC2 treats terminating an already terminated instance as success,
	// which is exactly the idempotency delete_worker promises.
	if err := be.TerminateInstance(ctx, id); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(nil)
}

func (d *Dispatcher) startWorker(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	if err := be.StartInstance(ctx, id); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}

	out, err := be.DescribeInstances(ctx, id)
	if err != nil {
		return cpi.PartialSuccess(
			cpi.Worker{ID: id, State: cpi.WorkerUnknown, Region: be.Region()},
			fmt.Sprintf("worker %s started but state could not be read back: %v", id, awsec2.Classify(err)))
	}
	workers := awsec2.MapWorkers(out, be.Region())
	if len(workers) == 0 {
		return cpi.PartialSuccess(
			cpi.Worker{ID: id, State: cpi.WorkerUnknown, Region: be.Region()},
			fmt.Sprintf("worker %s started but was not returned by the backend", id))
	}
	return cpi.Success(workers[0])
}

func (d *Dispatcher) rebootWorker(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	if err := be.RebootInstance(ctx, id); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(nil)
}

func (d *Dispatcher) getVolumes(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.DescribeVolumes(ctx)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(awsec2.MapVolumes(out, be.Region()))
}

func (d *Dispatcher) hasVolume(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "volume_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.DescribeVolumes(ctx, id)
	if err != nil {
		if awsec2.IsNotFound(err) {
			return cpi.Success(false)
		}
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(len(awsec2.MapVolumes(out, be.Region())) > 0)
}

func (d *Dispatcher) createVolume(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	sizeGB, err := params.Int(bag, "size_gb")
	if err != nil {
		return cpi.Failure(err)
	}
	if sizeGB <= 0 {
		return cpi.Failure(cpierrors.Newf(cpierrors.KindInvalidParameters,
			"parameter \"size_gb\" must be positive, got %d", sizeGB))
	}
	zone, err := params.String(bag, "availability_zone")
	if err != nil {
		return cpi.Failure(err)
	}
	volumeType, err := params.OptString(bag, "volume_type", d.cfg.Defaults.VolumeType)
	if err != nil {
		return cpi.Failure(err)
	}

	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.CreateVolume(ctx, sizeGB, zone, volumeType)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(awsec2.MapCreatedVolume(out, be.Region()))
}

func (d *Dispatcher) deleteVolume(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "volume_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	if err := be.DeleteVolume(ctx, id); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(nil)
}

func (d *Dispatcher) attachVolume(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	volumeID, err := params.String(bag, "volume_id")
	if err != nil {
		return cpi.Failure(err)
	}
	workerID, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	device, err := params.String(bag, "device_name")
	if err != nil {
		return cpi.Failure(err)
	}

	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	attached, err := be.AttachVolume(ctx, volumeID, workerID, device)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}

	out, err := be.DescribeVolumes(ctx, volumeID)
	if err != nil {
		return cpi.PartialSuccess(awsec2.MapAttachment(attached, be.Region()),
			fmt.Sprintf("volume %s attached but state could not be read back: %v", volumeID, awsec2.Classify(err)))
	}
	volumes := awsec2.MapVolumes(out, be.Region())
	if len(volumes) == 0 {
		return cpi.PartialSuccess(awsec2.MapAttachment(attached, be.Region()),
			fmt.Sprintf("volume %s attached but was not returned by the backend", volumeID))
	}
	return cpi.Success(volumes[0])
}

func (d *Dispatcher) detachVolume(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	volumeID, err := params.String(bag, "volume_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	detached, err := be.DetachVolume(ctx, volumeID)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}

	out, err := be.DescribeVolumes(ctx, volumeID)
	if err != nil {
		return cpi.PartialSuccess(awsec2.MapDetachment(detached, be.Region()),
			fmt.Sprintf("volume %s detached but state could not be read back: %v", volumeID, awsec2.Classify(err)))
	}
	volumes := awsec2.MapVolumes(out, be.Region())
	if len(volumes) == 0 {
		return cpi.PartialSuccess(awsec2.MapDetachment(detached, be.Region()),
			fmt.Sprintf("volume %s detached but was not returned by the backend", volumeID))
	}
	return cpi.Success(volumes[0])
}

// createSnapshot serves both create_snapshot and its volume-scoped alias
// snapshot_volume; the alias's callers historically pass source_volume_id.
func (d *Dispatcher) createSnapshot(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	volumeID, err := params.OptString(bag, "volume_id", "")
	if err != nil {
		return cpi.Failure(err)
	}
	if volumeID == "" {
		volumeID, err = params.OptString(bag, "source_volume_id", "")
		if err != nil {
			return cpi.Failure(err)
		}
	}
	if volumeID == "" {
		return cpi.Failure(cpierrors.New(cpierrors.KindInvalidParameters, "missing required parameter \"volume_id\""))
	}
	name, err := params.OptString(bag, "snapshot_name", "")
	if err != nil {
		return cpi.Failure(err)
	}

	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.CreateSnapshot(ctx, volumeID, name)
	if err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(awsec2.MapCreatedSnapshot(out, be.Region()))
}

func (d *Dispatcher) deleteSnapshot(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "snapshot_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	if err := be.DeleteSnapshot(ctx, id); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(nil)
}

func (d *Dispatcher) hasSnapshot(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "snapshot_id")
	if err != nil {
		return cpi.Failure(err)
	}
	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	out, err := be.DescribeSnapshots(ctx, id)
	if err != nil {
		if awsec2.IsNotFound(err) {
			return cpi.Success(false)
		}
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(out != nil && len(out.Snapshots) > 0)
}

func (d *Dispatcher) setWorkerMetadata(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result {
	id, err := params.String(bag, "worker_id")
	if err != nil {
		return cpi.Failure(err)
	}
	meta, err := params.OptStringMap(bag, "metadata")
	if err != nil {
		return cpi.Failure(err)
	}
	if meta == nil {
		// single key/value form kept for older callers
		key, kerr := params.OptString(bag, "key", "")
		if kerr != nil {
			return cpi.Failure(kerr)
		}
		if key != "" {
			value, verr := params.String(bag, "value")
			if verr != nil {
				return cpi.Failure(verr)
			}
			meta = map[string]string{key: value}
		}
	}
	if len(meta) == 0 {
		return cpi.Failure(cpierrors.New(cpierrors.KindInvalidParameters, "missing required parameter \"metadata\""))
	}

	be, err := resolve()
	if err != nil {
		return cpi.Failure(err)
	}

	if err := be.TagResource(ctx, id, meta); err != nil {
		return cpi.Failure(awsec2.Classify(err))
	}
	return cpi.Success(nil)
}
