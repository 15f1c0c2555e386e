package notify

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

const successSubject = "CVAlyze | CV Extraction and Warehouse Update Completed"

// EmailNotifier sends the fire-and-forget completion email once a
// warehouse load succeeds.
type EmailNotifier struct {
	host     string
	port     string
	sender   string
	receiver string
	password string
}

func NewEmailNotifier(host, port, sender, receiver, password string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		sender:   sender,
		receiver: receiver,
		password: password,
	}
}

// SendExtractionSuccess emails the configured recipient that the latest
// batch reached the warehouse. Failures are logged, never propagated.
func (n *EmailNotifier) SendExtractionSuccess() {
	if n.sender == "" || n.receiver == "" || n.password == "" {
		log.Println("Missing required environment variables for email configuration.")
		return
	}

	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		ist = time.FixedZone("IST", 5*3600+30*60)
	}
	currentTime := time.Now().In(ist).Format("02-01-2006 15:04:05")

	body := fmt.Sprintf(`Dear Team,

We are pleased to inform you that the latest CV extraction and data loading process
has been successfully completed through the CVAlyze automation pipeline.

Completion Timestamp: %s (IST)

All candidate records have been updated in the centralized data warehouse, ensuring
that the most recent insights are now available for analysis.

You can access Looker Studio to explore comprehensive dashboards and trends derived
from AI-powered CV parsing and historical job application data.

Best regards,
CVAlyze AI Data Automation System
`, currentTime)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", n.receiver)
	fmt.Fprintf(&msg, "Subject: %s\r\n", successSubject)
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := sasl.NewPlainClient("", n.sender, n.password)
	addr := n.host + ":" + n.port

	if err := smtp.SendMail(addr, auth, n.sender, []string{n.receiver}, strings.NewReader(msg.String())); err != nil {
		log.Printf("Error sending email: %v", err)
		return
	}
	log.Println("Email notification sent successfully!")
}
