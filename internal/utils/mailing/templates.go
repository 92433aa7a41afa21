package mailing

import (
	"bytes"
	"html/template"
	"time"
)

var claimedTemplate = template.Must(template.New("claimed").Parse(`<p>Hi {{.DonorName}},</p>
<p>Your donation <strong>{{.FoodName}}</strong> was claimed by {{.ReceiverName}} at {{.ClaimedAt}}.</p>
<p>Pickup location: {{.PickupLocation}}</p>
<p><a href="{{.AppURL}}">Open your dashboard</a></p>`))

type ClaimedMail struct {
	DonorName      string
	ReceiverName   string
	FoodName       string
	PickupLocation string
	ClaimedAt      string
	AppURL         string
}

func NewClaimedMail(donorName, receiverName, foodName, pickupLocation string, claimedAt time.Time) ClaimedMail {
	return ClaimedMail{
		DonorName:      donorName,
		ReceiverName:   receiverName,
		FoodName:       foodName,
		PickupLocation: pickupLocation,
		ClaimedAt:      claimedAt.Format("02 Jan 2006 15:04 MST"),
		AppURL:         LoadMailConfig().AppURL,
	}
}

func (m ClaimedMail) Subject() string {
	return "Your food donation was claimed"
}

func (m ClaimedMail) Body() (string, error) {
	var buf bytes.Buffer
	if err := claimedTemplate.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}
