package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrPrinterNotFound = errors.New("printer not found")
	ErrClientNotFound  = errors.New("client not found")
)

type Connection struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

type Printer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Enabled    bool       `json:"enabled"`
	Connection Connection `json:"connection"`
}

type Client struct {
	ID      string `json:"id"`
	Pin     string `json:"pin"`
	Enabled bool   `json:"enabled"`
}

// Registry reads printer and client definitions from JSON files on disk.
// Files are re-read on every access so external edits take effect without a
// restart; there is no cached snapshot.
type Registry struct {
	printersPath string
	clientsPath  string
}

func New(printersPath, clientsPath string) *Registry {
	return &Registry{
		printersPath: printersPath,
		clientsPath:  clientsPath,
	}
}

func (r *Registry) ListPrinters() ([]Printer, error) {
	data, err := os.ReadFile(r.printersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Printer{}, nil
		}
		return nil, fmt.Errorf("failed to read printers file: %w", err)
	}

	var printers []Printer
	if err := json.Unmarshal(data, &printers); err != nil {
		return nil, fmt.Errorf("failed to parse printers file: %w", err)
	}

	for i := range printers {
		if printers[i].Connection.Port == 0 {
			printers[i].Connection.Port = 9100
		}
	}

	return printers, nil
}

// FindPrinter resolves key against printer ids and alias names,
// case-insensitively. Disabled printers are never returned.
func (r *Registry) FindPrinter(key string) (*Printer, error) {
	printers, err := r.ListPrinters()
	if err != nil {
		return nil, err
	}

	for i := range printers {
		p := &printers[i]
		if !p.Enabled {
			continue
		}
		if strings.EqualFold(p.ID, key) {
			return p, nil
		}
		if p.Name != "" && strings.EqualFold(p.Name, key) {
			return p, nil
		}
	}

	return nil, ErrPrinterNotFound
}

type clientsFile struct {
	Clients []Client `json:"clients"`
}

// ListClients accepts either a bare JSON array or an object wrapping the
// array under "clients".
func (r *Registry) ListClients() ([]Client, error) {
	data, err := os.ReadFile(r.clientsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Client{}, nil
		}
		return nil, fmt.Errorf("failed to read clients file: %w", err)
	}

	var clients []Client
	if err := json.Unmarshal(data, &clients); err == nil {
		return clients, nil
	}

	var wrapped clientsFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse clients file: %w", err)
	}

	return wrapped.Clients, nil
}

func (r *Registry) FindClient(id string) (*Client, error) {
	clients, err := r.ListClients()
	if err != nil {
		return nil, err
	}

	for i := range clients {
		if strings.EqualFold(clients[i].ID, id) {
			return &clients[i], nil
		}
	}

	return nil, ErrClientNotFound
}
