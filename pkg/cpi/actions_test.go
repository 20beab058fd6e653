package cpi

import "testing"

var vocabulary = []string{
	ActionTestInstall,
	ActionListWorkers,
	ActionCreateWorker,
	ActionDeleteWorker,
	ActionGetWorker,
	ActionHasWorker,
	ActionStartWorker,
	ActionRebootWorker,
	ActionGetVolumes,
	ActionHasVolume,
	ActionCreateVolume,
	ActionDeleteVolume,
	ActionAttachVolume,
	ActionDetachVolume,
	ActionSnapshotVolume,
	ActionCreateSnapshot,
	ActionDeleteSnapshot,
	ActionHasSnapshot,
	ActionSetWorkerMetadata,
}

func TestDefinitionsCoverVocabulary(t *testing.T) {
	defs := Definitions()
	if len(defs) != len(vocabulary) {
		t.Fatalf("expected %d definitions, got %d", len(vocabulary), len(defs))
	}

	byName := make(map[string]ActionDefinition, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}
	for _, name := range vocabulary {
		d, ok := byName[name]
		if !ok {
			t.Errorf("missing definition for %s", name)
			continue
		}
		if d.Description == "" {
			t.Errorf("definition %s has no description", name)
		}
	}
}

func TestEveryActionAcceptsRegion(t *testing.T) {
	for _, d := range Definitions() {
		found := false
		for _, p := range d.Parameters {
			if p.Name == "region" {
				found = true
				if p.Required {
					t.Errorf("%s: region must be optional", d.Name)
				}
			}
		}
		if !found {
			t.Errorf("%s: missing the region override parameter", d.Name)
		}
	}
}

func TestIsKnownAction(t *testing.T) {
	if !IsKnownAction(ActionCreateWorker) {
		t.Error("create_worker should be known")
	}
	if IsKnownAction("upgrade_worker") {
		t.Error("upgrade_worker should be unknown")
	}
	if IsKnownAction("CREATE_WORKER") {
		t.Error("action names are case-sensitive")
	}
}

func TestCreateWorkerParamsAreDefaulted(t *testing.T) {
	d, ok := Definition(ActionCreateWorker)
	if !ok {
		t.Fatal("create_worker should be defined")
	}

	for _, name := range []string{"ami", "instance_type"} {
		found := false
		for _, p := range d.Parameters {
			if p.Name != name {
				continue
			}
			found = true
			if p.Required {
				t.Errorf("%s: must be optional, a configured default fills it in", name)
			}
			if p.Default == nil {
				t.Errorf("%s: must advertise its default", name)
			}
		}
		if !found {
			t.Errorf("create_worker: missing parameter %q", name)
		}
	}
}

func TestDefinition(t *testing.T) {
	d, ok := Definition(ActionAttachVolume)
	if !ok {
		t.Fatal("attach_volume should be defined")
	}

	required := map[string]bool{}
	for _, p := range d.Parameters {
		if p.Required {
			required[p.Name] = true
		}
	}
	for _, name := range []string{"volume_id", "worker_id", "device_name"} {
		if !required[name] {
			t.Errorf("attach_volume: parameter %q should be required", name)
		}
	}
}

func TestResultShapes(t *testing.T) {
	s := Success(Worker{ID: "i-1"})
	if s.Failed() || s.Partial() {
		t.Errorf("success misreported: %+v", s)
	}

	p := PartialSuccess(Worker{ID: "i-1"}, "tagging failed")
	if p.Failed() || !p.Partial() {
		t.Errorf("partial success misreported: %+v", p)
	}
	if p.Payload.(Worker).ID != "i-1" {
		t.Error("partial success should still identify the created resource")
	}

	f := Failure(errTest)
	if !f.Failed() || f.Partial() {
		t.Errorf("failure misreported: %+v", f)
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }

func TestWorkerName(t *testing.T) {
	w := Worker{ID: "i-1", Tags: map[string]string{"Name": "web-1"}}
	if w.Name() != "web-1" {
		t.Errorf("Name() = %q, want web-1", w.Name())
	}
	if (Worker{ID: "i-2"}).Name() != "" {
		t.Error("worker without a Name tag should have an empty name")
	}
}
