package main

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/config"
	"github.com/nginxadmin/backend/internal/database"
	"github.com/nginxadmin/backend/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Upstream{},
		&models.Domain{},
		&models.Certificate{},
		&models.CertificateDomainMapping{},
		&models.ListeningPort{},
		&models.HttpServer{},
		&models.ServerDomainMapping{},
		&models.Location{},
		&models.AccessRule{},
		&models.ConfigVersion{},
		&models.NginxSettings{},
		&models.User{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Database migrated successfully")

	// Default settings row
	var settingsCount int64
	db.Model(&models.NginxSettings{}).Count(&settingsCount)
	if settingsCount == 0 {
		settings := models.DefaultNginxSettings()
		if err := db.Create(&settings).Error; err != nil {
			log.Fatal("Failed to seed settings:", err)
		}
		fmt.Println("Seeded default nginx settings")
	}

	// Standard listening ports
	ports := []models.ListeningPort{
		{Name: "HTTP", Port: 80, Protocol: "http"},
		{Name: "HTTPS", Port: 443, Protocol: "http", SSL: true, HTTP2: true},
	}
	for _, port := range ports {
		var existing models.ListeningPort
		if err := db.Where("port = ?", port.Port).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&port).Error; err != nil {
				log.Fatal("Failed to seed listening port:", err)
			}
			fmt.Printf("Seeded listening port %d\n", port.Port)
		}
	}

	// Demo proxy graph: domain -> server -> location -> upstream
	var upstreamCount int64
	db.Model(&models.Upstream{}).Count(&upstreamCount)
	if upstreamCount > 0 {
		fmt.Println("Demo data already present, skipping")
		return
	}

	upstream := models.Upstream{
		Name:      "demo_backend",
		Server:    "127.0.0.1:3000",
		KeepAlive: 32,
		Status:    models.UpstreamStatusActive,
	}
	if err := db.Create(&upstream).Error; err != nil {
		log.Fatal("Failed to seed upstream:", err)
	}

	domain := models.Domain{Domain: "demo.example.com"}
	if err := db.Create(&domain).Error; err != nil {
		log.Fatal("Failed to seed domain:", err)
	}

	var httpPort models.ListeningPort
	if err := db.Where("port = ?", 80).First(&httpPort).Error; err != nil {
		log.Fatal("Failed to load listening port:", err)
	}

	server := models.HttpServer{
		Name:            "demo",
		ListeningPortID: httpPort.ID,
		Status:          models.HttpServerStatusActive,
		AccessLogPath:   "/var/log/nginx/demo.access.log",
		ErrorLogPath:    "/var/log/nginx/demo.error.log",
		LogLevel:        "warn",
	}
	if err := db.Create(&server).Error; err != nil {
		log.Fatal("Failed to seed server:", err)
	}

	mapping := models.ServerDomainMapping{ServerID: server.ID, DomainID: domain.ID}
	if err := db.Create(&mapping).Error; err != nil {
		log.Fatal("Failed to seed domain mapping:", err)
	}

	location := models.Location{
		ServerID:          server.ID,
		UpstreamID:        upstream.ID,
		Path:              "/",
		ClientMaxBodySize: "10m",
	}
	if err := db.Create(&location).Error; err != nil {
		log.Fatal("Failed to seed location:", err)
	}

	fmt.Println("Seeded demo proxy graph")
}
