package models

// Domain is a hostname or wildcard pattern served by one or more HTTP servers.
type Domain struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Domain string `json:"domain" gorm:"uniqueIndex"`

	ServerMappings      []ServerDomainMapping      `json:"server_mappings,omitempty" gorm:"foreignKey:DomainID"`
	CertificateMappings []CertificateDomainMapping `json:"certificate_mappings,omitempty" gorm:"foreignKey:DomainID"`
}
