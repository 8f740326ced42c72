package viewstate

// User facing notice texts.
const (
	MsgDashboardLoadFailed       = "Failed to load dashboard data. Please try again later."
	MsgUsageLoadFailed           = "Failed to load energy usage data. Please try again later."
	MsgAppliancesLoadFailed      = "Failed to load appliance data"
	MsgRecommendationsLoadFailed = "Failed to load recommendations. Please try again."
	MsgSettingsLoadFailed        = "Failed to load settings. Please try again."

	MsgToggleFailed          = "Failed to toggle appliance. Please try again."
	MsgUpdateApplianceFailed = "Failed to update appliance. Please try again."
	MsgStatusFailed          = "Failed to update recommendation status. Please try again."
	MsgGenerateFailed        = "Failed to generate recommendations. Please try again."
	MsgSaveFailed            = "Failed to save settings. Please try again."
	MsgRulesFailed           = "Failed to update automation rules. Please try again."

	MsgSettingsSaved = "Settings saved successfully!"
)

// Read keys. A key names one read of a screen and owns its sequence token.
const (
	keyRealtime        = "realtime"
	keyAppliances      = "appliances"
	keyRecommendations = "recommendations"
	keyBreakdown       = "breakdown"
	keyHistory         = "history"
	keySettings        = "settings"
)
