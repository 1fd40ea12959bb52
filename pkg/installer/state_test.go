// pkg/installer/state_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test dependency-state degradation when collaborators fail

package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/logging"
	"github.com/modtide/modtide/pkg/types"
)

type failingGameFiles struct {
	types.GameFiles
	exists bool
	err    error
}

func (f *failingGameFiles) TargetExists(string) (bool, error) { return f.exists, f.err }

type failingPlugins struct {
	types.PluginManager
	active bool
	err    error
}

func (f *failingPlugins) IsPluginActive(string) (bool, error) { return f.active, f.err }

func TestFileState_CollaboratorErrors(t *testing.T) {
	boom := errors.New(errors.ErrFileAccess, "disk gone")

	tests := []struct {
		name    string
		files   *failingGameFiles
		plugins *failingPlugins
		want    types.FileActivationState
	}{
		{
			name:    "existence_query_error_reads_as_missing",
			files:   &failingGameFiles{err: boom},
			plugins: &failingPlugins{active: true},
			want:    types.FileMissing,
		},
		{
			name:    "activation_query_error_reads_as_inactive",
			files:   &failingGameFiles{exists: true},
			plugins: &failingPlugins{err: boom},
			want:    types.FileInactive,
		},
		{
			name:    "healthy_collaborators_report_active",
			files:   &failingGameFiles{exists: true},
			plugins: &failingPlugins{active: true},
			want:    types.FileActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &txState{
				gameFiles: tt.files,
				plugins:   tt.plugins,
				flags:     make(map[string]string),
				log:       logging.GetLogger("installer"),
			}
			assert.Equal(t, tt.want, s.FileState("plugin.esp"))
		})
	}
}
