//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"off":   zerolog.Disabled,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Int("levels", 2).Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.EqualValues(t, 2, line["levels"])
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fortplan.log")
	logger, closer, err := OpenFile(path, "debug")
	require.NoError(t, err)
	logger.Debug().Msg("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"started"`)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Console(&buf, "info")
	require.NoError(t, err)
	logger.Info().Str("key", "fortress").Msg("saved")
	assert.Contains(t, buf.String(), "saved")
	assert.Contains(t, buf.String(), "key=fortress")
}
