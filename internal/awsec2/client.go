package awsec2

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// ClientOptions carries the session settings shared by every region's facade.
// Empty credential fields defer to the SDK's default provider chain; retry
// policy belongs to the SDK transport, configured here and nowhere else.
type ClientOptions struct {
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	MaxRetries      int
}

// Facade wraps the EC2 API for one region. It is immutable after
// construction and safe for concurrent use.
type Facade struct {
	api    API
	region string
	logger *slog.Logger
}

// NewFacade builds a facade bound to one region.
func NewFacade(ctx context.Context, region string, opts ClientOptions, logger *slog.Logger) (*Facade, error) {
	if region == "" {
		return nil, fmt.Errorf("region must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if opts.MaxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(opts.MaxRetries))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := ec2.NewFromConfig(awsCfg, func(o *ec2.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
	})

	return &Facade{
		api:    client,
		region: region,
		logger: logger.With("component", "ec2-facade", "region", region),
	}, nil
}

// NewFacadeWithAPI builds a facade over a caller-supplied API implementation.
func NewFacadeWithAPI(api API, region string, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		api:    api,
		region: region,
		logger: logger.With("component", "ec2-facade", "region", region),
	}
}

// Region returns the region this facade is bound to.
func (f *Facade) Region() string {
	return f.region
}

// Ping issues a side-effect-free call to validate credentials and region.
func (f *Facade) Ping(ctx context.Context) error {
	_, err := f.api.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	return err
}

// DescribeInstances fetches instances, all of them when no ids are given.
func (f *Facade) DescribeInstances(ctx context.Context, ids ...string) (*ec2.DescribeInstancesOutput, error) {
	in := &ec2.DescribeInstancesInput{}
	if len(ids) > 0 {
		in.InstanceIds = ids
	}
	return f.api.DescribeInstances(ctx, in)
}

// RunInstance launches a single instance. A non-empty name is applied as the
// Name tag atomically with the launch.
func (f *Facade) RunInstance(ctx context.Context, imageID, instanceType, name string) (*ec2.RunInstancesOutput, error) {
	in := &ec2.RunInstancesInput{
		ImageId:      aws.String(imageID),
		InstanceType: ec2types.InstanceType(instanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
	}
	if name != "" {
		in.TagSpecifications = []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeInstance,
				Tags: []ec2types.Tag{
					{Key: aws.String("Name"), Value: aws.String(name)},
				},
			},
		}
	}
	return f.api.RunInstances(ctx, in)
}

// TerminateInstance terminates one instance. EC2 treats termination of an
// already terminated instance as success, which gives delete_worker its
// idempotency.
func (f *Facade) TerminateInstance(ctx context.Context, id string) error {
	_, err := f.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: []string{id}})
	return err
}

// StartInstance starts one stopped instance.
func (f *Facade) StartInstance(ctx context.Context, id string) error {
	_, err := f.api.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: []string{id}})
	return err
}

// RebootInstance reboots one instance.
func (f *Facade) RebootInstance(ctx context.Context, id string) error {
	_, err := f.api.RebootInstances(ctx, &ec2.RebootInstancesInput{InstanceIds: []string{id}})
	return err
}

// DescribeVolumes fetches volumes, all of them when no ids are given.
func (f *Facade) DescribeVolumes(ctx context.Context, ids ...string) (*ec2.DescribeVolumesOutput, error) {
	in := &ec2.DescribeVolumesInput{}
	if len(ids) > 0 {
		in.VolumeIds = ids
	}
	return f.api.DescribeVolumes(ctx, in)
}

// CreateVolume provisions a new volume in the given availability zone.
func (f *Facade) CreateVolume(ctx context.Context, sizeGB int32, availabilityZone, volumeType string) (*ec2.CreateVolumeOutput, error) {
	return f.api.CreateVolume(ctx, &ec2.CreateVolumeInput{
		AvailabilityZone: aws.String(availabilityZone),
		Size:             aws.Int32(sizeGB),
		VolumeType:       ec2types.VolumeType(volumeType),
	})
}

// DeleteVolume deletes one volume.
func (f *Facade) DeleteVolume(ctx context.Context, id string) error {
	_, err := f.api.DeleteVolume(ctx, &ec2.DeleteVolumeInput{VolumeId: aws.String(id)})
	return err
}

// AttachVolume attaches a volume to an instance at the given device path.
func (f *Facade) AttachVolume(ctx context.Context, volumeID, instanceID, device string) (*ec2.AttachVolumeOutput, error) {
	return f.api.AttachVolume(ctx, &ec2.AttachVolumeInput{
		VolumeId:   aws.String(volumeID),
		InstanceId: aws.String(instanceID),
		Device:     aws.String(device),
	})
}

// DetachVolume detaches a volume from whatever instance holds it.
func (f *Facade) DetachVolume(ctx context.Context, volumeID string) (*ec2.DetachVolumeOutput, error) {
	return f.api.DetachVolume(ctx, &ec2.DetachVolumeInput{VolumeId: aws.String(volumeID)})
}

// CreateSnapshot snapshots a volume. A non-empty name is applied as the Name
// tag atomically with the creation.
func (f *Facade) CreateSnapshot(ctx context.Context, volumeID, name string) (*ec2.CreateSnapshotOutput, error) {
	in := &ec2.CreateSnapshotInput{
		VolumeId:    aws.String(volumeID),
		Description: aws.String(fmt.Sprintf("Snapshot of %s", volumeID)),
	}
	if name != "" {
		in.TagSpecifications = []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeSnapshot,
				Tags: []ec2types.Tag{
					{Key: aws.String("Name"), Value: aws.String(name)},
				},
			},
		}
	}
	return f.api.CreateSnapshot(ctx, in)
}

// DeleteSnapshot deletes one snapshot.
func (f *Facade) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := f.api.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{SnapshotId: aws.String(id)})
	return err
}

// DescribeSnapshots fetches snapshots by id.
func (f *Facade) DescribeSnapshots(ctx context.Context, ids ...string) (*ec2.DescribeSnapshotsOutput, error) {
	in := &ec2.DescribeSnapshotsInput{}
	if len(ids) > 0 {
		in.SnapshotIds = ids
	}
	return f.api.DescribeSnapshots(ctx, in)
}

// TagResource applies the full tag map to one resource in a single call.
func (f *Facade) TagResource(ctx context.Context, resourceID string, tags map[string]string) error {
	ec2Tags := make([]ec2types.Tag, 0, len(tags))
	for k, v := range tags {
		ec2Tags = append(ec2Tags, ec2types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	_, err := f.api.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{resourceID},
		Tags:      ec2Tags,
	})
	return err
}

// Sessions is the region-keyed facade cache. Facades are built lazily on
// first use and never evicted or mutated, so readers share them without
// copying.
type Sessions struct {
	opts   ClientOptions
	logger *slog.Logger

	mu       sync.Mutex
	byRegion map[string]*Facade
}

// NewSessions creates an empty session cache.
func NewSessions(opts ClientOptions, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		opts:     opts,
		logger:   logger,
		byRegion: make(map[string]*Facade),
	}
}

// ForRegion returns the facade for a region, constructing it on first use.
func (s *Sessions) ForRegion(ctx context.Context, region string) (*Facade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.byRegion[region]; ok {
		return f, nil
	}

	f, err := NewFacade(ctx, region, s.opts, s.logger)
	if err != nil {
		return nil, err
	}
	s.byRegion[region] = f
	s.logger.Debug("created backend session", "region", region)
	return f, nil
}
