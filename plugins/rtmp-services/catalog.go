package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const servicesFile = "services.json"

// Server is one ingest endpoint of a service
type Server struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Service is one streaming platform in the catalog
type Service struct {
	Name    string   `json:"name"`
	Servers []Server `json:"servers"`
}

// Catalog is the parsed services.json
type Catalog struct {
	FormatVersion int       `json:"format_version"`
	Services      []Service `json:"services"`
}

func loadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading service catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing service catalog: %w", err)
	}
	if len(c.Services) == 0 {
		return nil, fmt.Errorf("service catalog %s lists no services", path)
	}
	return &c, nil
}

// Find returns a service by case-insensitive name
func (c *Catalog) Find(name string) (*Service, bool) {
	for i := range c.Services {
		if strings.EqualFold(c.Services[i].Name, name) {
			return &c.Services[i], true
		}
	}
	return nil, false
}

// ServerURL returns the URL of the named server, or of the first server
// when name is empty or unknown
func (s *Service) ServerURL(name string) string {
	if len(s.Servers) == 0 {
		return ""
	}
	for _, srv := range s.Servers {
		if name != "" && (strings.EqualFold(srv.Name, name) || srv.URL == name) {
			return srv.URL
		}
	}
	return s.Servers[0].URL
}
