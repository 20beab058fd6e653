package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/fleetops/cpi-aws/internal/awsec2"
	"github.com/fleetops/cpi-aws/internal/config"
	"github.com/fleetops/cpi-aws/internal/metrics"
	"github.com/fleetops/cpi-aws/internal/params"
	"github.com/fleetops/cpi-aws/pkg/cpi"
	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

// Backend is the facade surface the dispatcher drives, one method per
// backend operation. *awsec2.Facade satisfies it; dispatcher tests
// substitute a call-counting fake.
type Backend interface {
	Region() string
	Ping(ctx context.Context) error

	DescribeInstances(ctx context.Context, ids ...string) (*ec2.DescribeInstancesOutput, error)
	RunInstance(ctx context.Context, imageID, instanceType, name string) (*ec2.RunInstancesOutput, error)
	TerminateInstance(ctx context.Context, id string) error
	StartInstance(ctx context.Context, id string) error
	RebootInstance(ctx context.Context, id string) error

	DescribeVolumes(ctx context.Context, ids ...string) (*ec2.DescribeVolumesOutput, error)
	CreateVolume(ctx context.Context, sizeGB int32, availabilityZone, volumeType string) (*ec2.CreateVolumeOutput, error)
	DeleteVolume(ctx context.Context, id string) error
	AttachVolume(ctx context.Context, volumeID, instanceID, device string) (*ec2.AttachVolumeOutput, error)
	DetachVolume(ctx context.Context, volumeID string) (*ec2.DetachVolumeOutput, error)

	CreateSnapshot(ctx context.Context, volumeID, name string) (*ec2.CreateSnapshotOutput, error)
	DeleteSnapshot(ctx context.Context, id string) error
	DescribeSnapshots(ctx context.Context, ids ...string) (*ec2.DescribeSnapshotsOutput, error)

	TagResource(ctx context.Context, resourceID string, tags map[string]string) error
}

// BackendFunc resolves the backend session for a region.
type BackendFunc func(ctx context.Context, region string) (Backend, error)

// backendResolver hands a handler its session on demand. Handlers call it
// only after their parameters validate, so a malformed request constructs no
// session and touches no region cache.
type backendResolver func() (Backend, error)

type handlerFunc func(ctx context.Context, resolve backendResolver, bag map[string]any) cpi.Result

// Dispatcher implements cpi.Provider over AWS. It is stateless per call;
// the only shared state is the read-only session cache behind backends.
type Dispatcher struct {
	cfg       *config.Configuration
	backends  BackendFunc
	collector *metrics.Collector
	logger    *slog.Logger
	handlers  map[string]handlerFunc
}

// New builds a dispatcher backed by real AWS sessions.
func New(cfg *config.Configuration, collector *metrics.Collector, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	sessions := awsec2.NewSessions(awsec2.ClientOptions{
		EndpointURL:     cfg.AWS.EndpointURL,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
		MaxRetries:      cfg.AWS.MaxRetries,
	}, logger)

	return NewWithBackends(cfg, func(ctx context.Context, region string) (Backend, error) {
		return sessions.ForRegion(ctx, region)
	}, collector, logger)
}

// NewWithBackends builds a dispatcher over a caller-supplied backend
// resolver. Tests use this to observe session selection and call counts.
func NewWithBackends(cfg *config.Configuration, backends BackendFunc, collector *metrics.Collector, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		cfg:       cfg,
		backends:  backends,
		collector: collector,
		logger:    logger.With("component", "dispatcher"),
	}
	d.handlers = map[string]handlerFunc{
		cpi.ActionTestInstall:       d.testInstall,
		cpi.ActionListWorkers:       d.listWorkers,
		cpi.ActionCreateWorker:      d.createWorker,
		cpi.ActionDeleteWorker:      d.deleteWorker,
		cpi.ActionGetWorker:         d.getWorker,
		cpi.ActionHasWorker:         d.hasWorker,
		cpi.ActionStartWorker:       d.startWorker,
		cpi.ActionRebootWorker:      d.rebootWorker,
		cpi.ActionGetVolumes:        d.getVolumes,
		cpi.ActionHasVolume:         d.hasVolume,
		cpi.ActionCreateVolume:      d.createVolume,
		cpi.ActionDeleteVolume:      d.deleteVolume,
		cpi.ActionAttachVolume:      d.attachVolume,
		cpi.ActionDetachVolume:      d.detachVolume,
		cpi.ActionSnapshotVolume:    d.createSnapshot,
		cpi.ActionCreateSnapshot:    d.createSnapshot,
		cpi.ActionDeleteSnapshot:    d.deleteSnapshot,
		cpi.ActionHasSnapshot:       d.hasSnapshot,
		cpi.ActionSetWorkerMetadata: d.setWorkerMetadata,
	}
	return d
}

// Name identifies the backend this provider adapts.
func (d *Dispatcher) Name() string {
	return "aws"
}

// Dispatch executes one action to completion and records the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, bag map[string]any) cpi.Result {
	start := time.Now()
	res := d.dispatch(ctx, action, bag)
	elapsed := time.Since(start)

	switch {
	case res.Failed():
		kind := cpierrors.KindOf(res.Err)
		d.collector.RecordAction(action, metrics.OutcomeFailure, elapsed)
		d.collector.RecordError(action, string(kind))
		d.logger.Warn("action failed", "action", action, "kind", kind, "err", res.Err, "elapsed", elapsed)
	case res.Partial():
		d.collector.RecordAction(action, metrics.OutcomePartial, elapsed)
		d.logger.Info("action partially succeeded", "action", action, "warning", res.Warning, "elapsed", elapsed)
	default:
		d.collector.RecordAction(action, metrics.OutcomeSuccess, elapsed)
		d.logger.Debug("action succeeded", "action", action, "elapsed", elapsed)
	}
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, action string, bag map[string]any) cpi.Result {
	h, ok := d.handlers[action]
	if !ok {
		return cpi.Failure(cpierrors.Newf(cpierrors.KindUnsupportedAction,
			"action %q is not part of the CPI vocabulary", action).WithAction(action))
	}

	region, err := params.OptString(bag, "region", d.cfg.AWS.Region)
	if err != nil {
		return d.fail(action, err)
	}

	resolve := func() (Backend, error) {
		be, err := d.backends(ctx, region)
		if err != nil {
			return nil, cpierrors.Wrap(cpierrors.KindUnknownBackend, err, "failed to create backend session")
		}
		return be, nil
	}

	res := h(ctx, resolve, bag)
	if res.Err != nil {
		return d.fail(action, res.Err)
	}
	return res
}

// fail stamps the action onto a classified error. Unclassified errors are
// normalized first so a Failure never escapes without a taxonomy kind.
func (d *Dispatcher) fail(action string, err error) cpi.Result {
	e := awsec2.Classify(err)
	return cpi.Failure(e.WithAction(action))
}

var _ cpi.Provider = (*Dispatcher)(nil)
