package eip712

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vagus-network/planner-go/pkg/intent"
	"github.com/vagus-network/planner-go/pkg/schema"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0).UTC() }
}

const actionsFixture = `
actions:
  MOVE_TO:
    description: Move the end effector to a target position
    parameters:
      x:
        type: float
        unit: m
        min: -2.0
        max: 2.0
        brakeable: true
      vMax:
        type: float
        unit: m/s
        min: 0.0
        max: 2.0
        brakeable: true
`

const policyFixture = `
states:
  SAFE:
    description: Normal operation
    scaling:
      speed: 1.0
      force: 1.0
    restrictions: []
`

func testIntent(t *testing.T) *intent.Intent {
	t.Helper()
	store, err := schema.Load([]byte(actionsFixture), []byte(policyFixture))
	require.NoError(t, err)
	planner, err := intent.ParseAddress("0x742d35cc6645c0532925a3b8dc6b6b5a1c6bb0b5")
	require.NoError(t, err)

	it, err := intent.NewBuilder(store, 1, planner).
		WithClock(fixedClock(1700000000)).
		SetAction("MOVE_TO").
		SetParameter("x", 1.0).
		SetParameter("vMax", 1.5).
		Build()
	require.NoError(t, err)
	return it
}

func TestKeccak256KnownAnswer(t *testing.T) {
	// Keccak-256 of the empty string; the NIST SHA3-256 empty digest
	// is a7ffc6f8..., so this also guards against mixing the two up.
	sum := Keccak256()
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(sum[:]))
}

func TestSigningDigestDeterministic(t *testing.T) {
	it := testIntent(t)
	d := DefaultDomain()

	first := SigningDigest(d, it)
	second := SigningDigest(d, it)
	assert.Equal(t, first, second)
	assert.NotEqual(t, [32]byte{}, first)
}

func TestChainIDChangesDigest(t *testing.T) {
	it := testIntent(t)
	d1 := DefaultDomain()
	d2 := DefaultDomain()
	d2.ChainID = 1

	assert.NotEqual(t, d1.Separator(), d2.Separator())
	assert.NotEqual(t, SigningDigest(d1, it), SigningDigest(d2, it))

	// The struct hash is domain-independent.
	assert.Equal(t, StructHash(it), StructHash(it))
}

func TestDomainFieldsBindSeparator(t *testing.T) {
	base := DefaultDomain()

	name := base
	name.Name = "NotVagus"
	assert.NotEqual(t, base.Separator(), name.Separator())

	version := base
	version.Version = "2"
	assert.NotEqual(t, base.Separator(), version.Separator())

	contract := base
	contract.VerifyingContract[19] = 1
	assert.NotEqual(t, base.Separator(), contract.Separator())
}

func TestIntentFieldsBindStructHash(t *testing.T) {
	it := testIntent(t)
	base := StructHash(it)

	nonce := *it
	nonce.Nonce++
	assert.NotEqual(t, base, StructHash(&nonce))

	params := *it
	params.Params = append([]byte(nil), params.Params...)
	params.Params[0] ^= 0xff
	assert.NotEqual(t, base, StructHash(&params))

	window := *it
	window.NotAfter++
	assert.NotEqual(t, base, StructHash(&window))
}

func TestBe32Padding(t *testing.T) {
	out := be32(0x0102030405060708)
	require.Len(t, out, 32)
	assert.Equal(t, make([]byte, 24), out[:24])
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, out[24:])
}
