package service

import (
	"fmt"
	"sort"
	"time"

	"fintrack/config"
	"fintrack/models"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// EmailService sends alert digest emails. It implements alerts.Notifier so
// the scheduler can hand it users that just received new alerts.
type EmailService struct {
	cfg *config.EmailConfig
	db  *gorm.DB
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig, db *gorm.DB) *EmailService {
	return &EmailService{cfg: cfg, db: db}
}

// NotifyNewAlerts mails the user a digest of their unread alerts. Users
// without an email address are skipped silently.
func (s *EmailService) NotifyNewAlerts(user models.User, created int) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set email.enabled=true")
	}
	if user.Email == "" {
		return nil
	}

	var unread []models.Alert
	if err := s.db.Where("user_id = ? AND `read` = ? AND expires_at > ?", user.ID, false, time.Now()).
		Order("created_at DESC").
		Limit(20).
		Find(&unread).Error; err != nil {
		return fmt.Errorf("load unread alerts: %w", err)
	}
	if len(unread) == 0 {
		return nil
	}
	sortByPriority(unread)

	subject := fmt.Sprintf("[fintrack] %d new alert(s) for your finances", created)
	body := s.generateDigestBody(user.Username, unread)
	return s.sendEmail(user.Email, subject, body)
}

// priorityRank orders alert priorities for display, most urgent first.
// The strings sort alphabetically in the wrong order, so SQL cannot do it.
var priorityRank = map[string]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

// sortByPriority orders alerts high before medium before low, keeping the
// newest-first order within each priority.
func sortByPriority(alerts []models.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return priorityRank[alerts[i].Priority] < priorityRank[alerts[j].Priority]
	})
}

// generateDigestBody renders the alert digest HTML.
func (s *EmailService) generateDigestBody(username string, alerts []models.Alert) string {
	rows := ""
	for _, a := range alerts {
		rows += fmt.Sprintf(`
            <tr>
                <td class="prio prio-%s">%s</td>
                <td><strong>%s</strong><br><span class="body">%s</span></td>
            </tr>`, a.Priority, a.Priority, a.Title, a.Body)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 10px; border-bottom: 1px solid #eee; vertical-align: top; }
        .prio { width: 70px; font-weight: bold; text-transform: uppercase; font-size: 12px; }
        .prio-high { color: #ef4444; }
        .prio-medium { color: #f59e0b; }
        .prio-low { color: #64748b; }
        .body { color: #555; font-size: 13px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>fintrack</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>Your finances produced new alerts:</p>
            <table>%s
            </table>
        </div>
        <div class="footer">
            <p>This email was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, username, rows)
}

// sendEmail delivers one message via SMTP.
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
