package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResponseOmitsLocalPaths(t *testing.T) {
	resp := GenerateResponse{
		Status: RunStatusGenerated,
		RunID:  "run-1",
		Packets: []Packet{{
			Name:   "第一中隊",
			Path:   "/tmp/notices-123/packets/第一中隊.pdf",
			Pages:  4,
			GCSUri: "gs://packets/run-1/第一中隊.pdf",
		}},
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/tmp/notices-123")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	packet := decoded["packets"].([]any)[0].(map[string]any)
	assert.Equal(t, "gs://packets/run-1/第一中隊.pdf", packet["gcsUri"])
	assert.NotContains(t, packet, "path")
}
