package audit

import (
	"reflect"
	"testing"
)

func TestBuildBaseQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			wantQuery: "SELECT COUNT(1) FROM audit_events WHERE 1=1",
		},
		{
			name:      "action only",
			filter:    Filter{Action: ActionTaskStatus},
			wantQuery: "SELECT COUNT(1) FROM audit_events WHERE 1=1 AND action = $1",
			wantArgs:  []any{ActionTaskStatus},
		},
		{
			name:      "entity and actor",
			filter:    Filter{EntityType: "task", ActorUser: "u1"},
			wantQuery: "SELECT COUNT(1) FROM audit_events WHERE 1=1 AND entity_type = $1 AND actor_user_id::text = $2",
			wantArgs:  []any{"task", "u1"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildBaseQuery("SELECT COUNT(1)", tc.filter)
			if query != tc.wantQuery {
				t.Fatalf("query = %q, want %q", query, tc.wantQuery)
			}
			if !reflect.DeepEqual(args, tc.wantArgs) {
				t.Fatalf("args = %#v, want %#v", args, tc.wantArgs)
			}
		})
	}
}
