package scenario

// Demo returns the built-in corporate-breach scenario: a mid-size IT estate
// with phishing and public-web entry points, lateral movement through file
// shares and a jumpbox, and six crown-jewel assets. Hub overrides price the
// hardened targets far above their realistic approach routes.
func Demo() *Scenario {
	return &Scenario{
		Name:         "corporate-breach",
		Description:  "Corporate IT estate: phishing and web entry, lateral movement to crown-jewel data stores.",
		DefaultStart: "attacker",
		Assets: []string{
			"Finance_Database",
			"HR_Database",
			"Customer_Database",
			"Orders_Database",
			"vault:secrets",
			"Logs",
		},
		Edges: []EdgeSpec{
			// Entry points
			{From: "attacker", To: "web:public_site", Action: "network_connect", Weight: 2},
			{From: "attacker", To: "ws:employee_pc", Action: "phishing_success", Weight: 1},

			// Workstation to shared credentials
			{From: "ws:employee_pc", To: "user:employee", Action: "logon", Weight: 1},
			{From: "user:employee", To: "share:common", Action: "file_access", Weight: 2},
			{From: "share:common", To: "creds:leaked", Action: "credential_discovery", Weight: 1},

			// Server-side lateral movement
			{From: "creds:leaked", To: "srv:jumpbox", Action: "remote_logon", Weight: 2},
			{From: "srv:jumpbox", To: "srv:fileserver", Action: "network_connect", Weight: 2},
			{From: "srv:fileserver", To: "HR_Database", Action: "network_connect", Weight: 3},
			{From: "srv:fileserver", To: "Finance_Database", Action: "network_connect", Weight: 3},

			// Web application chain
			{From: "web:public_site", To: "web:internal_app", Action: "pivot_web", Weight: 3},
			{From: "web:internal_app", To: "srv:api", Action: "service_call", Weight: 1},
			{From: "srv:api", To: "Orders_Database", Action: "db_call", Weight: 2},
			{From: "web:internal_app", To: "Customer_Database", Action: "sql_access", Weight: 2},

			// Privilege escalation to the vault
			{From: "srv:jumpbox", To: "srv:ad", Action: "admin_session", Weight: 3},
			{From: "srv:ad", To: "user:admin", Action: "privilege_escalation", Weight: 2},
			{From: "user:admin", To: "vault:secrets", Action: "vault_access", Weight: 1},
			{From: "vault:secrets", To: "Logs", Action: "log_access", Weight: 2},
			{From: "vault:secrets", To: "Finance_Database", Action: "use_secrets", Weight: 1},

			// Pivot-back edges so a compromised asset can still move outward
			{From: "Orders_Database", To: "srv:api", Action: "db_creds_found", Weight: 2},
			{From: "Customer_Database", To: "web:internal_app", Action: "app_secrets_reuse", Weight: 2},
			{From: "Finance_Database", To: "srv:fileserver", Action: "service_account_reuse", Weight: 2},
			{From: "HR_Database", To: "srv:fileserver", Action: "service_account_reuse", Weight: 2},
			{From: "Logs", To: "srv:ad", Action: "admin_artifacts_found", Weight: 3},
		},
		Hub: &HubSpec{
			Node:          "net:core",
			ToHubWeight:   30,
			FromHubWeight: 30,
			Overrides: map[string]HubOverride{
				// High-security nodes are expensive to route to or from
				"vault:secrets": {ToHub: 250, FromHub: 250},
				"Logs":          {ToHub: 180, FromHub: 180},
				"srv:ad":        {ToHub: 120, FromHub: 120},

				// Protected databases
				"Finance_Database":  {ToHub: 160, FromHub: 160},
				"HR_Database":       {ToHub: 110, FromHub: 110},
				"Customer_Database": {ToHub: 90, FromHub: 90},
				"Orders_Database":   {ToHub: 70, FromHub: 70},

				// The entry point is easy to reach from the core
				"attacker": {ToHub: 30, FromHub: 10},
			},
		},
	}
}
