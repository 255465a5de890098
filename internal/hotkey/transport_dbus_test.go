//go:build linux

package hotkey

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHandlePath(t *testing.T) {
	tests := []struct {
		name    string
		raw     dbus.Variant
		want    dbus.ObjectPath
		wantErr bool
	}{
		{
			name: "object path",
			raw:  dbus.MakeVariant(dbus.ObjectPath("/org/freedesktop/portal/desktop/session/1_42/s1")),
			want: "/org/freedesktop/portal/desktop/session/1_42/s1",
		},
		{
			name: "plain string",
			raw:  dbus.MakeVariant("/org/freedesktop/portal/desktop/session/1_42/s1"),
			want: "/org/freedesktop/portal/desktop/session/1_42/s1",
		},
		{
			name:    "invalid object path",
			raw:     dbus.MakeVariant(dbus.ObjectPath("not-a-path")),
			wantErr: true,
		},
		{
			name:    "invalid string",
			raw:     dbus.MakeVariant("not-a-path"),
			wantErr: true,
		},
		{
			name:    "unexpected type",
			raw:     dbus.MakeVariant(uint32(7)),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sessionHandlePath(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortalRequestPath(t *testing.T) {
	assert.Equal(t,
		dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/hotkeys_session_7_req"),
		portalRequestPath(":1.42", "hotkeys_session_7_req"))
}

func TestDecodeResponse(t *testing.T) {
	requestPath := dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/tok")
	sessionHandle := dbus.MakeVariant("/org/freedesktop/portal/desktop/session/1_42/s1")

	tests := []struct {
		name        string
		paths       []dbus.ObjectPath
		sig         *dbus.Signal
		wantMatched bool
		wantCode    uint32
		wantErr     bool
	}{
		{
			name:  "matching response",
			paths: []dbus.ObjectPath{requestPath},
			sig: &dbus.Signal{
				Path: requestPath,
				Name: portalResponseSignal,
				Body: []interface{}{uint32(0), map[string]dbus.Variant{"session_handle": sessionHandle}},
			},
			wantMatched: true,
		},
		{
			name:  "denied response",
			paths: []dbus.ObjectPath{requestPath},
			sig: &dbus.Signal{
				Path: requestPath,
				Name: portalResponseSignal,
				Body: []interface{}{uint32(1), map[string]dbus.Variant{}},
			},
			wantMatched: true,
			wantCode:    1,
		},
		{
			name:  "second accepted path",
			paths: []dbus.ObjectPath{"/org/freedesktop/portal/desktop/request/1_42/other", requestPath},
			sig: &dbus.Signal{
				Path: requestPath,
				Name: portalResponseSignal,
				Body: []interface{}{uint32(0), map[string]dbus.Variant{}},
			},
			wantMatched: true,
		},
		{
			name:  "other request path ignored",
			paths: []dbus.ObjectPath{requestPath},
			sig: &dbus.Signal{
				Path: "/org/freedesktop/portal/desktop/request/1_99/tok",
				Name: portalResponseSignal,
				Body: []interface{}{uint32(0), map[string]dbus.Variant{}},
			},
		},
		{
			name:  "other signal name ignored",
			paths: []dbus.ObjectPath{requestPath},
			sig: &dbus.Signal{
				Path: requestPath,
				Name: portalActivatedSignal,
				Body: []interface{}{uint32(0), map[string]dbus.Variant{}},
			},
		},
		{
			name:  "short body",
			paths: []dbus.ObjectPath{requestPath},
			sig: &dbus.Signal{
				Path: requestPath,
				Name: portalResponseSignal,
				Body: []interface{}{uint32(0)},
			},
			wantErr: true,
		},
		{
			name:  "non-integer code",
			paths: []dbus.ObjectPath{requestPath},
			sig: &dbus.Signal{
				Path: requestPath,
				Name: portalResponseSignal,
				Body: []interface{}{"0", map[string]dbus.Variant{}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, results, matched, err := decodeResponse(tt.paths, tt.sig)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatched, matched)
			if tt.wantMatched {
				assert.Equal(t, tt.wantCode, code)
				assert.NotNil(t, results)
			}
		})
	}
}

func TestDecodeResponseMissingResultsMap(t *testing.T) {
	requestPath := dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/tok")
	sig := &dbus.Signal{
		Path: requestPath,
		Name: portalResponseSignal,
		Body: []interface{}{uint32(0), "not-a-vardict"},
	}

	code, results, matched, err := decodeResponse([]dbus.ObjectPath{requestPath}, sig)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, uint32(0), code)
	assert.Empty(t, results)
}

func TestDispatchShortcutSignal(t *testing.T) {
	sessionPath := dbus.ObjectPath("/org/freedesktop/portal/desktop/session/1_42/s1")
	otherSession := dbus.ObjectPath("/org/freedesktop/portal/desktop/session/1_99/s2")

	tests := []struct {
		name            string
		sig             *dbus.Signal
		wantActivated   []string
		wantDeactivated []string
	}{
		{
			name: "activated for our session",
			sig: &dbus.Signal{
				Name: portalActivatedSignal,
				Body: []interface{}{sessionPath, "boss-key", uint64(1), map[string]dbus.Variant{}},
			},
			wantActivated: []string{"boss-key"},
		},
		{
			name: "deactivated for our session",
			sig: &dbus.Signal{
				Name: portalDeactivatedSignal,
				Body: []interface{}{sessionPath, "boss-key", uint64(1), map[string]dbus.Variant{}},
			},
			wantDeactivated: []string{"boss-key"},
		},
		{
			name: "other session dropped",
			sig: &dbus.Signal{
				Name: portalActivatedSignal,
				Body: []interface{}{otherSession, "boss-key", uint64(1), map[string]dbus.Variant{}},
			},
		},
		{
			name: "unrelated signal dropped",
			sig: &dbus.Signal{
				Name: portalResponseSignal,
				Body: []interface{}{uint32(0), map[string]dbus.Variant{}},
			},
		},
		{
			name: "short body dropped",
			sig: &dbus.Signal{
				Name: portalActivatedSignal,
				Body: []interface{}{sessionPath},
			},
		},
		{
			name: "non-string shortcut id dropped",
			sig: &dbus.Signal{
				Name: portalActivatedSignal,
				Body: []interface{}{sessionPath, uint32(7)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var activated, deactivated []string
			dispatchShortcutSignal(sessionPath, tt.sig,
				func(id string) { activated = append(activated, id) },
				func(id string) { deactivated = append(deactivated, id) })
			assert.Equal(t, tt.wantActivated, activated)
			assert.Equal(t, tt.wantDeactivated, deactivated)
		})
	}
}

func TestDispatchShortcutSignalNilHandlers(t *testing.T) {
	sessionPath := dbus.ObjectPath("/org/freedesktop/portal/desktop/session/1_42/s1")
	sig := &dbus.Signal{
		Name: portalActivatedSignal,
		Body: []interface{}{sessionPath, "boss-key"},
	}
	assert.NotPanics(t, func() {
		dispatchShortcutSignal(sessionPath, sig, nil, nil)
	})
}
