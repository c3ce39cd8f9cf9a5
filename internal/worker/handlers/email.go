package handlers

import (
	"fmt"
	"log"
	"os"

	"github.com/dentalab/milldash/internal/analytics"
	"github.com/dentalab/milldash/internal/window"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

func sendReportEmail(to string, granularity window.Granularity, result analytics.Result, outputFile string) error {
	subject := fmt.Sprintf("milldash %s report", granularity)
	body := fmt.Sprintf(
		"Your %s production report is ready.\n\n"+
			"Total jobs: %d\n"+
			"Success rate: %.1f%%\n"+
			"Utilization: %.1f h\n"+
			"Errors: %d\n\n"+
			"Report file: %s\n",
		granularity, result.TotalJobs, result.SuccessRate,
		result.UtilizationHours, result.ErrorCount, outputFile,
	)

	fromName := os.Getenv("FROM_NAME")
	fromAddress := os.Getenv("FROM_ADDRESS")
	from := mail.NewEmail(fromName, fromAddress)
	toEmail := mail.NewEmail("", to)
	email := mail.NewSingleEmail(from, subject, toEmail, body, body)
	client := sendgrid.NewSendClient(os.Getenv("EMAIL_API_KEY"))
	response, err := client.Send(email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}

	log.Printf("Report email sent to %s (status: %d)", to, response.StatusCode)
	return nil
}
