package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriStateJSON(t *testing.T) {
	var payload struct {
		A TriState `json:"a"`
		B TriState `json:"b"`
		C TriState `json:"c"`
		D TriState `json:"d"`
		E TriState `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":true,"b":false,"c":null,"d":"نعم","e":"لا"}`), &payload))
	assert.Equal(t, TriStateYes, payload.A)
	assert.Equal(t, TriStateNo, payload.B)
	assert.Equal(t, TriStateUnspecified, payload.C)
	assert.Equal(t, TriStateYes, payload.D)
	assert.Equal(t, TriStateNo, payload.E)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":false,"c":null,"d":true,"e":false}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"maybe"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"a":3}`), &payload))
}

func TestTriStateSQL(t *testing.T) {
	var ts TriState
	require.NoError(t, ts.Scan(true))
	assert.Equal(t, TriStateYes, ts)
	require.NoError(t, ts.Scan([]byte("f")))
	assert.Equal(t, TriStateNo, ts)
	require.NoError(t, ts.Scan(nil))
	assert.Equal(t, TriStateUnspecified, ts)
	assert.Error(t, ts.Scan(12))

	v, err := TriStateYes.Value()
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = TriStateUnspecified.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTriStateArabic(t *testing.T) {
	assert.Equal(t, "نعم", TriStateYes.Arabic("غير محدد"))
	assert.Equal(t, "لا", TriStateNo.Arabic("غير محدد"))
	assert.Equal(t, "غير محدد", TriStateUnspecified.Arabic("غير محدد"))
}

func TestRegistrationStatsAdd(t *testing.T) {
	var st RegistrationStats
	st.Add(RegistrationStatusApproved, 3)
	st.Add(RegistrationStatusNew, 2)
	st.Add("archived", 9)
	assert.Equal(t, RegistrationStats{Total: 5, New: 2, Approved: 3}, st)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPagination(1, 0, 5).TotalPages)
}

func TestSessionClaims(t *testing.T) {
	s := Session{Identity: Identity{UserID: "u-1", Email: "admin@orema.ma"}}
	assert.JSONEq(t, `{"sub":"u-1","email":"admin@orema.ma","role":"authenticated"}`, s.Claims())
}
