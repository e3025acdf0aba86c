package main

import (
	"fmt"
	"sync"

	"github.com/david50407/obs-studio/sdk"
)

// commonService is a configured rtmp_common instance
type commonService struct {
	catalog *Catalog

	mu     sync.RWMutex
	url    string
	key    string
	active string
}

func commonServiceInfo(catalog *Catalog) *sdk.ServiceInfo {
	return &sdk.ServiceInfo{
		ID: "rtmp_common",

		GetName: func() string { return text.Text("StreamingServices") },
		Create: func(settings sdk.Settings) (interface{}, error) {
			s := &commonService{catalog: catalog}
			if err := s.update(settings); err != nil {
				return nil, err
			}
			return s, nil
		},
		Destroy: func(data interface{}) {},
		Update: func(data interface{}, settings sdk.Settings) {
			// an unknown service keeps the previous configuration
			_ = data.(*commonService).update(settings)
		},
		Initialize: func(data interface{}, encoders sdk.Settings) bool {
			return data.(*commonService).URL() != ""
		},
		URL: func(data interface{}) string { return data.(*commonService).URL() },
		Key: func(data interface{}) string { return data.(*commonService).Key() },
	}
}

func (s *commonService) update(settings sdk.Settings) error {
	name := settings.String("service")
	if name == "" {
		name = s.catalog.Services[0].Name
	}
	service, ok := s.catalog.Find(name)
	if !ok {
		return fmt.Errorf("unknown streaming service %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = service.Name
	s.url = service.ServerURL(settings.String("server"))
	s.key = settings.String("key")
	return nil
}

// URL returns the ingest URL of the selected server
func (s *commonService) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// Key returns the stream key
func (s *commonService) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}
