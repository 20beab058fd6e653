package params

import (
	"math"
	"testing"

	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		bag     map[string]any
		want    string
		wantErr bool
	}{
		{"present", map[string]any{"worker_id": "i-abc123"}, "i-abc123", false},
		{"missing", map[string]any{}, "", true},
		{"empty", map[string]any{"worker_id": ""}, "", true},
		{"wrong type", map[string]any{"worker_id": 42}, "", true},
		{"nil value", map[string]any{"worker_id": nil}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.bag, "worker_id")
			if (err != nil) != tt.wantErr {
				t.Fatalf("String() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !cpierrors.IsKind(err, cpierrors.KindInvalidParameters) {
					t.Errorf("expected INVALID_PARAMETERS, got %v", cpierrors.KindOf(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptString(t *testing.T) {
	tests := []struct {
		name    string
		bag     map[string]any
		want    string
		wantErr bool
	}{
		{"present", map[string]any{"region": "eu-west-1"}, "eu-west-1", false},
		{"absent uses default", map[string]any{}, "us-east-1", false},
		{"nil uses default", map[string]any{"region": nil}, "us-east-1", false},
		{"empty uses default", map[string]any{"region": ""}, "us-east-1", false},
		{"wrong type", map[string]any{"region": 7}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OptString(tt.bag, "region", "us-east-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("OptString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("OptString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int32
		wantErr bool
	}{
		{"int", 100, 100, false},
		{"int32", int32(8), 8, false},
		{"int64", int64(500), 500, false},
		{"integral float", float64(16), 16, false},
		{"fractional float", 1.5, 0, true},
		{"string", "100", 0, true},
		{"max int32", int64(math.MaxInt32), math.MaxInt32, false},
		{"min int32", int64(math.MinInt32), math.MinInt32, false},
		{"int64 above range", int64(math.MaxInt32) + 1, 0, true},
		{"int64 wraps to small positive", int64(4294967396), 0, true},
		{"int64 below range", int64(math.MinInt32) - 1, 0, true},
		{"float above range", float64(1 << 40), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Int(map[string]any{"size_gb": tt.value}, "size_gb")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Int() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := Int(map[string]any{}, "size_gb"); err == nil {
		t.Error("missing required integer should fail")
	}
}

func TestOptBool(t *testing.T) {
	got, err := OptBool(map[string]any{"wait": true}, "wait", false)
	if err != nil || !got {
		t.Errorf("OptBool(present) = %v, %v", got, err)
	}
	got, err = OptBool(map[string]any{}, "wait", true)
	if err != nil || !got {
		t.Errorf("OptBool(absent) = %v, %v; want default true", got, err)
	}
	if _, err = OptBool(map[string]any{"wait": "yes"}, "wait", false); err == nil {
		t.Error("non-boolean value should fail")
	}
}

func TestStringMap(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    map[string]string
		wantErr bool
	}{
		{"typed map", map[string]string{"env": "prod"}, map[string]string{"env": "prod"}, false},
		{"decoded map", map[string]any{"env": "prod", "team": "core"}, map[string]string{"env": "prod", "team": "core"}, false},
		{"non-string value", map[string]any{"count": 3}, nil, true},
		{"wrong type", "env=prod", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringMap(map[string]any{"tags": tt.value}, "tags")
			if (err != nil) != tt.wantErr {
				t.Fatalf("StringMap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("StringMap() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("StringMap()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}

	m, err := OptStringMap(map[string]any{}, "tags")
	if err != nil || m != nil {
		t.Errorf("OptStringMap(absent) = %v, %v; want nil, nil", m, err)
	}
}
