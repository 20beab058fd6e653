package awsec2

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// fakeAPI records the last input of each call so tests can assert request
// construction without a live endpoint.
type fakeAPI struct {
	describeInstancesIn *ec2.DescribeInstancesInput
	runIn               *ec2.RunInstancesInput
	terminateIn         *ec2.TerminateInstancesInput
	createVolumeIn      *ec2.CreateVolumeInput
	attachIn            *ec2.AttachVolumeInput
	createSnapshotIn    *ec2.CreateSnapshotInput
	createTagsIn        *ec2.CreateTagsInput
	describeRegionsIn   *ec2.DescribeRegionsInput
}

func (f *fakeAPI) DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.describeInstancesIn = in
	return &ec2.DescribeInstancesOutput{}, nil
}

func (f *fakeAPI) RunInstances(ctx context.Context, in *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	f.runIn = in
	return &ec2.RunInstancesOutput{}, nil
}

func (f *fakeAPI) TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	f.terminateIn = in
	return &ec2.TerminateInstancesOutput{}, nil
}

func (f *fakeAPI) StartInstances(ctx context.Context, in *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	return &ec2.StartInstancesOutput{}, nil
}

func (f *fakeAPI) RebootInstances(ctx context.Context, in *ec2.RebootInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RebootInstancesOutput, error) {
	return &ec2.RebootInstancesOutput{}, nil
}

func (f *fakeAPI) DescribeVolumes(ctx context.Context, in *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	return &ec2.DescribeVolumesOutput{}, nil
}

func (f *fakeAPI) CreateVolume(ctx context.Context, in *ec2.CreateVolumeInput, optFns ...func(*ec2.Options)) (*ec2.CreateVolumeOutput, error) {
	f.createVolumeIn = in
	return &ec2.CreateVolumeOutput{}, nil
}

func (f *fakeAPI) DeleteVolume(ctx context.Context, in *ec2.DeleteVolumeInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVolumeOutput, error) {
	return &ec2.DeleteVolumeOutput{}, nil
}

func (f *fakeAPI) AttachVolume(ctx context.Context, in *ec2.AttachVolumeInput, optFns ...func(*ec2.Options)) (*ec2.AttachVolumeOutput, error) {
	f.attachIn = in
	return &ec2.AttachVolumeOutput{}, nil
}

func (f *fakeAPI) DetachVolume(ctx context.Context, in *ec2.DetachVolumeInput, optFns ...func(*ec2.Options)) (*ec2.DetachVolumeOutput, error) {
	return &ec2.DetachVolumeOutput{}, nil
}

func (f *fakeAPI) CreateSnapshot(ctx context.Context, in *ec2.CreateSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.CreateSnapshotOutput, error) {
	f.createSnapshotIn = in
	return &ec2.CreateSnapshotOutput{}, nil
}

func (f *fakeAPI) DeleteSnapshot(ctx context.Context, in *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error) {
	return &ec2.DeleteSnapshotOutput{}, nil
}

func (f *fakeAPI) DescribeSnapshots(ctx context.Context, in *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	return &ec2.DescribeSnapshotsOutput{}, nil
}

func (f *fakeAPI) CreateTags(ctx context.Context, in *ec2.CreateTagsInput, optFns ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error) {
	f.createTagsIn = in
	return &ec2.CreateTagsOutput{}, nil
}

func (f *fakeAPI) DescribeRegions(ctx context.Context, in *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	f.describeRegionsIn = in
	return &ec2.DescribeRegionsOutput{}, nil
}

func newTestFacade() (*Facade, *fakeAPI) {
	api := &fakeAPI{}
	return NewFacadeWithAPI(api, "us-east-1", nil), api
}

func TestFacadeRegion(t *testing.T) {
	f, _ := newTestFacade()
	if f.Region() != "us-east-1" {
		t.Errorf("Region() = %q", f.Region())
	}
}

func TestFacadePing(t *testing.T) {
	f, api := newTestFacade()
	if err := f.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if api.describeRegionsIn == nil {
		t.Error("Ping should issue DescribeRegions")
	}
}

func TestFacadeDescribeInstances(t *testing.T) {
	f, api := newTestFacade()

	if _, err := f.DescribeInstances(context.Background()); err != nil {
		t.Fatalf("DescribeInstances failed: %v", err)
	}
	if len(api.describeInstancesIn.InstanceIds) != 0 {
		t.Error("no ids should mean an unfiltered describe")
	}

	if _, err := f.DescribeInstances(context.Background(), "i-1", "i-2"); err != nil {
		t.Fatalf("DescribeInstances failed: %v", err)
	}
	if got := api.describeInstancesIn.InstanceIds; len(got) != 2 || got[0] != "i-1" {
		t.Errorf("unexpected id filter: %v", got)
	}
}

func TestFacadeRunInstance(t *testing.T) {
	f, api := newTestFacade()

	if _, err := f.RunInstance(context.Background(), "ami-123", "t3.small", "web-1"); err != nil {
		t.Fatalf("RunInstance failed: %v", err)
	}

	in := api.runIn
	if aws.ToString(in.ImageId) != "ami-123" {
		t.Errorf("image id = %v", in.ImageId)
	}
	if in.InstanceType != ec2types.InstanceType("t3.small") {
		t.Errorf("instance type = %v", in.InstanceType)
	}
	if aws.ToInt32(in.MinCount) != 1 || aws.ToInt32(in.MaxCount) != 1 {
		t.Error("exactly one instance must be requested")
	}
	if len(in.TagSpecifications) != 1 || aws.ToString(in.TagSpecifications[0].Tags[0].Value) != "web-1" {
		t.Errorf("Name tag not applied at launch: %+v", in.TagSpecifications)
	}

	// no name, no tag specification
	if _, err := f.RunInstance(context.Background(), "ami-123", "t3.small", ""); err != nil {
		t.Fatalf("RunInstance failed: %v", err)
	}
	if len(api.runIn.TagSpecifications) != 0 {
		t.Error("empty name should not produce a tag specification")
	}
}

func TestFacadeCreateVolume(t *testing.T) {
	f, api := newTestFacade()

	if _, err := f.CreateVolume(context.Background(), 100, "us-east-1a", "gp3"); err != nil {
		t.Fatalf("CreateVolume failed: %v", err)
	}

	in := api.createVolumeIn
	if aws.ToInt32(in.Size) != 100 {
		t.Errorf("size = %v", in.Size)
	}
	if aws.ToString(in.AvailabilityZone) != "us-east-1a" {
		t.Errorf("zone = %v", in.AvailabilityZone)
	}
	if in.VolumeType != ec2types.VolumeType("gp3") {
		t.Errorf("volume type = %v", in.VolumeType)
	}
}

func TestFacadeCreateSnapshot(t *testing.T) {
	f, api := newTestFacade()

	if _, err := f.CreateSnapshot(context.Background(), "vol-1", "nightly"); err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	in := api.createSnapshotIn
	if aws.ToString(in.VolumeId) != "vol-1" {
		t.Errorf("volume id = %v", in.VolumeId)
	}
	if aws.ToString(in.Description) != "Snapshot of vol-1" {
		t.Errorf("description = %v", in.Description)
	}
	if len(in.TagSpecifications) != 1 || aws.ToString(in.TagSpecifications[0].Tags[0].Value) != "nightly" {
		t.Errorf("Name tag not applied: %+v", in.TagSpecifications)
	}
}

func TestFacadeTagResource(t *testing.T) {
	f, api := newTestFacade()

	if err := f.TagResource(context.Background(), "i-1", map[string]string{"env": "prod"}); err != nil {
		t.Fatalf("TagResource failed: %v", err)
	}

	in := api.createTagsIn
	if len(in.Resources) != 1 || in.Resources[0] != "i-1" {
		t.Errorf("resources = %v", in.Resources)
	}
	if len(in.Tags) != 1 || aws.ToString(in.Tags[0].Key) != "env" || aws.ToString(in.Tags[0].Value) != "prod" {
		t.Errorf("tags = %v", in.Tags)
	}
}

var _ API = (*fakeAPI)(nil)
