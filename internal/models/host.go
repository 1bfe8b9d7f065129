package models

// Host is a monitored host as shown in the host edit popup.
type Host struct {
	HostID      string   `json:"hostid"`
	Host        string   `json:"host"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GroupIDs    []string `json:"groupids"`
	Status      int      `json:"status"`
}
