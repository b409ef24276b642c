package models

// AccessRuleType is the nginx directive emitted for a rule.
type AccessRuleType string

const (
	AccessRuleAllow AccessRuleType = "allow"
	AccessRuleDeny  AccessRuleType = "deny"
)

// AccessRuleScope decides whether a rule attaches to a server or a location.
type AccessRuleScope string

const (
	AccessRuleScopeServer   AccessRuleScope = "server"
	AccessRuleScopeLocation AccessRuleScope = "location"
)

// AccessRule is an allow/deny IP directive scoped to a server or a location.
// Exactly one of ServerID/LocationID is set, matching Scope.
type AccessRule struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	IPAddress  string          `json:"ip_address"` // IPv4 or CIDR
	Rule       AccessRuleType  `json:"rule" gorm:"default:'allow'"`
	Scope      AccessRuleScope `json:"scope" gorm:"default:'server'"`
	ServerID   *uint           `json:"server_id"`
	LocationID *uint           `json:"location_id"`

	HttpServer *HttpServer `json:"http_server,omitempty" gorm:"foreignKey:ServerID"`
	Location   *Location   `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}
