package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, printers, clients string) *Registry {
	t.Helper()
	dir := t.TempDir()

	printersPath := filepath.Join(dir, "printers.json")
	clientsPath := filepath.Join(dir, "clients.json")

	if printers != "" {
		require.NoError(t, os.WriteFile(printersPath, []byte(printers), 0o644))
	}
	if clients != "" {
		require.NoError(t, os.WriteFile(clientsPath, []byte(clients), 0o644))
	}

	return New(printersPath, clientsPath)
}

const samplePrinters = `[
	{"id": "P1", "name": "Counter", "enabled": true, "connection": {"ip": "10.0.0.5", "port": 9100}},
	{"id": "P2", "enabled": false, "connection": {"ip": "10.0.0.6", "port": 9100}},
	{"id": "P3", "enabled": true, "connection": {"ip": "10.0.0.7"}}
]`

func TestFindPrinterCaseInsensitive(t *testing.T) {
	reg := writeRegistry(t, samplePrinters, "")

	for _, key := range []string{"P1", "p1", "counter", "COUNTER"} {
		p, err := reg.FindPrinter(key)
		require.NoError(t, err, key)
		assert.Equal(t, "P1", p.ID)
	}
}

func TestFindPrinterDisabledNeverMatches(t *testing.T) {
	reg := writeRegistry(t, samplePrinters, "")

	_, err := reg.FindPrinter("P2")
	assert.ErrorIs(t, err, ErrPrinterNotFound)

	_, err = reg.FindPrinter("p2")
	assert.ErrorIs(t, err, ErrPrinterNotFound)
}

func TestFindPrinterUnknown(t *testing.T) {
	reg := writeRegistry(t, samplePrinters, "")

	_, err := reg.FindPrinter("nope")
	assert.ErrorIs(t, err, ErrPrinterNotFound)
}

func TestListPrintersDefaultPort(t *testing.T) {
	reg := writeRegistry(t, samplePrinters, "")

	printers, err := reg.ListPrinters()
	require.NoError(t, err)
	require.Len(t, printers, 3)
	assert.Equal(t, 9100, printers[2].Connection.Port)
}

func TestListPrintersMissingFile(t *testing.T) {
	reg := writeRegistry(t, "", "")

	printers, err := reg.ListPrinters()
	require.NoError(t, err)
	assert.Empty(t, printers)
}

func TestRegistryReloadsOnEveryAccess(t *testing.T) {
	reg := writeRegistry(t, samplePrinters, "")

	_, err := reg.FindPrinter("P1")
	require.NoError(t, err)

	// Disable P1 on disk; the next lookup must see it without a restart.
	updated := `[{"id": "P1", "enabled": false, "connection": {"ip": "10.0.0.5", "port": 9100}}]`
	require.NoError(t, os.WriteFile(reg.printersPath, []byte(updated), 0o644))

	_, err = reg.FindPrinter("P1")
	assert.ErrorIs(t, err, ErrPrinterNotFound)
}

func TestListClientsBareArray(t *testing.T) {
	reg := writeRegistry(t, "", `[{"id": "pos-1", "pin": "1234", "enabled": true}]`)

	clients, err := reg.ListClients()
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "pos-1", clients[0].ID)
}

func TestListClientsWrappedArray(t *testing.T) {
	reg := writeRegistry(t, "", `{"clients": [{"id": "pos-1", "pin": "1234", "enabled": true}]}`)

	clients, err := reg.ListClients()
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "pos-1", clients[0].ID)
}

func TestFindClientCaseInsensitive(t *testing.T) {
	reg := writeRegistry(t, "", `[{"id": "POS-1", "pin": "1234", "enabled": true}]`)

	c, err := reg.FindClient("pos-1")
	require.NoError(t, err)
	assert.Equal(t, "POS-1", c.ID)

	_, err = reg.FindClient("pos-2")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
