// Package rbac decides access to legacy page actions.
package rbac

import (
	"slices"
	"strconv"

	"github.com/platformbuilds/mirador-console/internal/models"
)

// Params gives access to request parameters.
type Params interface {
	Get(key string) string
}

// MapParams is a Params over a plain map.
type MapParams map[string]string

func (m MapParams) Get(key string) string { return m[key] }

var (
	// Sub-sections that inherit the access rules of their host or
	// template context.
	contextActions = []string{
		"triggers.php", "graphs.php", "host_discovery.php", "httpconf.php",
		"trigger_prototypes.php", "host_prototypes.php",
	}

	deniedBelowUser = []string{
		"chart.php", "chart2.php", "chart3.php", "chart4.php", "chart6.php", "chart7.php", "history.php",
		"hostinventories.php", "hostinventoriesoverview.php", "httpdetails.php", "image.php", "imgstore.php",
		"jsrpc.php", "map.php", "tr_events.php", "sysmap.php", "sysmaps.php", "report2.php",
	}

	deniedBelowAdmin = []string{
		"actionconf.php", "graphs.php", "host_discovery.php", "host_prototypes.php", "host.list",
		"httpconf.php", "report4.php", "templates.php", "trigger_prototypes.php", "triggers.php",
	}
)

type ruleActions struct {
	rule    string
	actions []string
}

var userRuleActions = []ruleActions{
	{models.RuleUIMonitoringHosts, []string{"httpdetails.php"}},
	{models.RuleUIMonitoringLatestData, []string{"history.php"}},
	{models.RuleUIMonitoringMaps, []string{"image.php", "map.php", "sysmap.php", "sysmaps.php"}},
	{models.RuleUIMonitoringProblems, []string{"tr_events.php"}},
	{models.RuleUIInventoryHosts, []string{"hostinventories.php"}},
	{models.RuleUIInventoryOverview, []string{"hostinventoriesoverview.php"}},
	{models.RuleUIReportsAvailabilityReport, []string{"report2.php"}},
}

var adminRuleActions = []ruleActions{
	{models.RuleUIConfigurationHosts, []string{"host.list"}},
	{models.RuleUIConfigurationTemplates, []string{"templates.php"}},
	{models.RuleUIReportsNotifications, []string{"report4.php"}},
}

var eventSourceRules = map[int]string{
	models.EventSourceTriggers:         models.RuleUIConfigurationTriggerActions,
	models.EventSourceService:          models.RuleUIConfigurationServiceActions,
	models.EventSourceDiscovery:        models.RuleUIConfigurationDiscoveryActions,
	models.EventSourceAutoregistration: models.RuleUIConfigurationAutoregistrationAction,
	models.EventSourceInternal:         models.RuleUIConfigurationInternalActions,
}

// EffectiveAction returns the action whose rules apply. Sub-sections opened
// from a host or template context are checked as the host list or the
// template list.
func EffectiveAction(action string, params Params) string {
	switch ctx := params.Get("context"); {
	case ctx == "host" && slices.Contains(contextActions, action):
		return "host.list"
	case ctx == "template" && slices.Contains(contextActions, action):
		return "templates.php"
	}
	return action
}

// LegacyAccess reports whether user may open the legacy page action.
// Actions not covered by any deny list or role rule are allowed.
func LegacyAccess(user *models.User, action string, params Params) bool {
	if user == nil {
		return false
	}
	action = EffectiveAction(action, params)

	var denied []string
	if user.Type < models.UserTypeUser {
		denied = append(denied, deniedBelowUser...)
	}
	if user.Type < models.UserTypeAdmin {
		denied = append(denied, deniedBelowAdmin...)
	}
	if slices.Contains(denied, action) {
		return false
	}

	var rules []ruleActions
	switch user.Type {
	case models.UserTypeUser:
		rules = userRuleActions
	case models.UserTypeAdmin, models.UserTypeSuperAdmin:
		rules = append(slices.Clone(userRuleActions), adminRuleActions...)
		if action == "actionconf.php" {
			if source, err := strconv.Atoi(params.Get("eventsource")); err == nil {
				if rule, ok := eventSourceRules[source]; ok {
					rules = append(rules, ruleActions{rule, []string{"actionconf.php"}})
				}
			}
		}
	}

	for _, ra := range rules {
		if slices.Contains(ra.actions, action) {
			return user.HasRule(ra.rule)
		}
	}
	return true
}
