package models

// Role rule names.
const (
	RuleAll = "*"

	RuleUIMonitoringHosts      = "ui.monitoring.hosts"
	RuleUIMonitoringLatestData = "ui.monitoring.latest_data"
	RuleUIMonitoringMaps       = "ui.monitoring.maps"
	RuleUIMonitoringProblems   = "ui.monitoring.problems"

	RuleUIInventoryHosts    = "ui.inventory.hosts"
	RuleUIInventoryOverview = "ui.inventory.overview"

	RuleUIReportsAvailabilityReport = "ui.reports.availability_report"
	RuleUIReportsNotifications      = "ui.reports.notifications"

	RuleUIConfigurationHosts                  = "ui.configuration.hosts"
	RuleUIConfigurationTemplates              = "ui.configuration.templates"
	RuleUIConfigurationTriggerActions         = "ui.configuration.trigger_actions"
	RuleUIConfigurationServiceActions         = "ui.configuration.service_actions"
	RuleUIConfigurationDiscoveryActions       = "ui.configuration.discovery_actions"
	RuleUIConfigurationAutoregistrationAction = "ui.configuration.autoregistration_actions"
	RuleUIConfigurationInternalActions        = "ui.configuration.internal_actions"
	RuleUIConfigurationEventCorrelation       = "ui.configuration.event_correlation"

	RuleUIAdministrationGeneral = "ui.administration.general"

	RuleActionsManageAPITokens = "actions.manage_api_tokens"
)

// Event sources of actions.
const (
	EventSourceTriggers         = 0
	EventSourceDiscovery        = 1
	EventSourceAutoregistration = 2
	EventSourceInternal         = 3
	EventSourceService          = 4
)
