package eip712

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTypedData(t *testing.T) {
	it := testIntent(t)
	td := NewTypedData(DefaultDomain(), it)

	assert.Equal(t, "Intent", td.PrimaryType)
	require.Contains(t, td.Types, "EIP712Domain")
	require.Contains(t, td.Types, "Intent")
	assert.Len(t, td.Types["Intent"], 11)

	assert.Equal(t, "Vagus", td.Domain["name"])
	assert.Equal(t, "1", td.Domain["version"])
	assert.Equal(t, uint64(31337), td.Domain["chainId"])
	assert.Equal(t, "0x"+strings.Repeat("0", 40), td.Domain["verifyingContract"])

	msg := td.Message
	assert.Equal(t, it.ExecutorID, msg["executorId"])
	actionID, ok := msg["actionId"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(actionID, "0x"))
}

func TestCanonicalJSONStable(t *testing.T) {
	it := testIntent(t)
	td := NewTypedData(DefaultDomain(), it)

	first, err := td.CanonicalJSON()
	require.NoError(t, err)
	second, err := td.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Canonical form is valid JSON with sorted top-level keys.
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(first, &doc))
	assert.Contains(t, doc, "types")
	assert.Contains(t, doc, "primaryType")
	idxDomain := strings.Index(string(first), `"domain"`)
	idxMessage := strings.Index(string(first), `"message"`)
	idxPrimary := strings.Index(string(first), `"primaryType"`)
	idxTypes := strings.Index(string(first), `"types"`)
	assert.True(t, idxDomain < idxMessage && idxMessage < idxPrimary && idxPrimary < idxTypes)
}

func TestPayloadHash(t *testing.T) {
	it := testIntent(t)
	td := NewTypedData(DefaultDomain(), it)

	h1, err := td.PayloadHash()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h1, "0x"))
	assert.Len(t, h1, 66)

	other := NewTypedData(Domain{Name: "Vagus", Version: "1", ChainID: 1}, it)
	h2, err := other.PayloadHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
