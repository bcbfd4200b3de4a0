package notifier

import (
	"fmt"

	"github.com/elsevier-core-engineering/capshare/logging"
	alerts "github.com/opsgenie/opsgenie-go-sdk/alertsv2"
	ogclient "github.com/opsgenie/opsgenie-go-sdk/client"
)

// OpsGenieProvider contains the required configuration to send OpsGenie
// notifications.
type OpsGenieProvider struct {
	config map[string]string
}

// Name returns the name of the notification endpoint in a lowercase, human
// readable format.
func (og *OpsGenieProvider) Name() string {
	return "opsgenie"
}

// NewOpsGenieProvider creates the OpsGenie notification provider.
func NewOpsGenieProvider(c map[string]string) (Notifier, error) {
	og := &OpsGenieProvider{
		config: c,
	}

	return og, nil
}

// SendNotification will send a notification to OpsGenie using the AlertV2
// API to create a new alert.
func (og *OpsGenieProvider) SendNotification(message FailureMessage) {
	d := fmt.Sprintf("%s %s_%s_%s",
		message.AlertUID, message.ClusterIdentifier, message.Reason, message.FailedResource)

	client := new(ogclient.OpsGenieClient)
	client.SetAPIKey(og.config["OpsGenieAPIKey"])

	alertCli, _ := client.AlertV2()
	request := alerts.CreateAlertRequest{
		Message:     "capshare notification",
		Alias:       message.AlertUID,
		Description: d,
		Details: map[string]string{
			"alert_uid":          message.AlertUID,
			"cluster_identifier": message.ClusterIdentifier,
			"reason":             message.Reason,
			"failed_resource":    message.FailedResource,
		},
		Entity: message.FailedResource,
		Source: "capshare",
	}

	resp, err := alertCli.Create(request)
	if err != nil {
		logging.Error("notifier/opsgenie: an error occurred creating the OpsGenie event: %v", err)
		return
	}

	logging.Info("notifier/opsgenie: incident %s has been triggered", resp.RequestID)
}
