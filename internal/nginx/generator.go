package nginx

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/metrics"
	"github.com/nginxadmin/backend/internal/models"
)

// ErrServerNotFound is returned when a requested server does not exist or is
// not active.
var ErrServerNotFound = errors.New("server not found or inactive")

// Generator assembles entity state into formatted nginx configuration text.
// It re-queries the database on every call so output always reflects the
// latest committed state; the parsed templates are the only cached state and
// are read-only after construction.
type Generator struct {
	db       *gorm.DB
	settings SettingsSource
	tmpl     *template.Template
}

// NewGenerator creates a config generator backed by the given database and
// settings source.
func NewGenerator(db *gorm.DB, settings SettingsSource) (*Generator, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Generator{db: db, settings: settings, tmpl: tmpl}, nil
}

// GenerateFullConfig renders the complete configuration: all active upstreams
// followed by all active servers, formatted.
func (g *Generator) GenerateFullConfig() (string, error) {
	var upstreams []models.Upstream
	if err := g.db.Where("status = ?", models.UpstreamStatusActive).Find(&upstreams).Error; err != nil {
		return "", fmt.Errorf("fetch active upstreams: %w", err)
	}

	var servers []models.HttpServer
	if err := g.serverQuery().Where("status = ?", models.HttpServerStatusActive).Find(&servers).Error; err != nil {
		return "", fmt.Errorf("fetch active servers: %w", err)
	}

	settings, err := g.settings.GetSettings()
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	data := TemplateData{Upstreams: upstreams}
	for _, server := range servers {
		sd, err := g.assembleServer(server, settings)
		if err != nil {
			return "", err
		}
		data.Servers = append(data.Servers, sd)
	}

	raw, err := renderTemplate(g.tmpl, "main", data)
	if err != nil {
		return "", err
	}

	metrics.IncConfigGenerated()
	return Format(raw), nil
}

// GenerateServerConfig renders the standalone server block for one active
// server. Returns ErrServerNotFound for missing or inactive servers.
func (g *Generator) GenerateServerConfig(serverID uint) (string, error) {
	var server models.HttpServer
	err := g.serverQuery().
		Where("id = ? AND status = ?", serverID, models.HttpServerStatusActive).
		First(&server).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrServerNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetch server %d: %w", serverID, err)
	}

	settings, err := g.settings.GetSettings()
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	sd, err := g.assembleServer(server, settings)
	if err != nil {
		return "", err
	}

	raw, err := renderTemplate(g.tmpl, "server", sd)
	if err != nil {
		return "", err
	}

	metrics.IncConfigGenerated()
	return Format(raw), nil
}

// serverQuery eager-loads every relation the renderer needs so assembly works
// on owned value snapshots, never live references.
func (g *Generator) serverQuery() *gorm.DB {
	return g.db.
		Preload("ListeningPort").
		Preload("Locations").
		Preload("Locations.Upstream").
		Preload("DomainMappings").
		Preload("DomainMappings.Domain").
		Preload("Certificate")
}

func (g *Generator) assembleServer(server models.HttpServer, settings models.NginxSettings) (ServerData, error) {
	sd := ServerData{HttpServer: server}

	if server.ListeningPort == nil {
		return sd, fmt.Errorf("server %d has no listening port", server.ID)
	}

	// server_name falls back to the server's own name so the directive is
	// never empty.
	var names []string
	for _, m := range server.DomainMappings {
		if m.Domain != nil {
			names = append(names, m.Domain.Domain)
		}
	}
	if len(names) > 0 {
		sd.ServerNames = strings.Join(names, " ")
	} else {
		sd.ServerNames = server.Name
	}

	var serverRules []models.AccessRule
	if err := g.db.Where("server_id = ? AND scope = ?", server.ID, models.AccessRuleScopeServer).
		Find(&serverRules).Error; err != nil {
		return sd, fmt.Errorf("fetch server access rules: %w", err)
	}
	sd.AccessRules = serverRules

	for _, loc := range server.Locations {
		var locRules []models.AccessRule
		if err := g.db.Where("location_id = ? AND scope = ?", loc.ID, models.AccessRuleScopeLocation).
			Find(&locRules).Error; err != nil {
			return sd, fmt.Errorf("fetch location access rules: %w", err)
		}
		sd.Locations = append(sd.Locations, LocationData{Location: loc, AccessRules: locRules})
	}

	if server.ListeningPort.SSL {
		sslBlock, err := g.renderSSLConfig(server, settings)
		if err != nil {
			return sd, err
		}
		sd.SSLConfig = sslBlock
	}

	return sd, nil
}

// renderSSLConfig resolves the securing certificate and renders the ssl
// directive block with the static TLS hardening set.
func (g *Generator) renderSSLConfig(server models.HttpServer, settings models.NginxSettings) (string, error) {
	name := g.ResolveCertificateName(server)
	data := sslTemplateData{
		CertPath: filepath.Join(settings.SSLCertificatesPath, name+".crt"),
		KeyPath:  filepath.Join(settings.SSLPrivateKeysPath, name+".key"),
	}
	return renderTemplate(g.tmpl, "ssl", data)
}

// ResolveCertificateName picks the certificate securing an SSL server. The
// direct certificate reference always wins; otherwise the first certificate
// mapped to any of the server's domains is used (order undefined when several
// match); otherwise the server's own name is the filename fallback.
func (g *Generator) ResolveCertificateName(server models.HttpServer) string {
	if server.Certificate != nil {
		return server.Certificate.Name
	}

	var domainIDs []uint
	for _, m := range server.DomainMappings {
		domainIDs = append(domainIDs, m.DomainID)
	}
	if len(domainIDs) > 0 {
		var cert models.Certificate
		err := g.db.
			Joins("JOIN certificate_domain_mappings cdm ON cdm.certificate_id = certificates.id").
			Where("cdm.domain_id IN ?", domainIDs).
			First(&cert).Error
		if err == nil {
			return cert.Name
		}
	}

	return server.Name
}
