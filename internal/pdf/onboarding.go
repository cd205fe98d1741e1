// Package pdf renders the onboarding summary document generated when an
// employee completes onboarding. The PDF is uploaded to blob storage and
// attached to the employee's document list; rendering failure never blocks
// the onboarding record itself.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 124}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// OnboardingSummary is the structured data the summary document is built
// from. Bank numbers arrive already masked; the renderer never sees the
// full values.
type OnboardingSummary struct {
	FullName       string
	Email          string
	Phone          string
	Address        string
	DateOfBirth    *time.Time
	EmergencyName  string
	EmergencyRel   string
	EmergencyPhone string
	RoleTitle      string
	StartDate      *time.Time
	EmploymentType string
	BankName       string
	AccountType    string
	AccountLast4   string
	CompletedAt    time.Time
}

// Renderer builds onboarding summary PDFs.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the PDF bytes for a completed onboarding.
func (r *Renderer) Render(data OnboardingSummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Onboarding Summary", true).
		WithAuthor("Nova Creations", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("PERSONAL INFORMATION"))
	m.AddRows(
		fieldRow("Full name", data.FullName),
		fieldRow("Email", data.Email),
		fieldRow("Phone", orDash(data.Phone)),
		fieldRow("Address", orDash(data.Address)),
		fieldRow("Date of birth", formatDate(data.DateOfBirth)),
	)

	m.AddRows(sectionRow("EMERGENCY CONTACT"))
	m.AddRows(
		fieldRow("Name", orDash(data.EmergencyName)),
		fieldRow("Relationship", orDash(data.EmergencyRel)),
		fieldRow("Phone", orDash(data.EmergencyPhone)),
	)

	m.AddRows(sectionRow("EMPLOYMENT"))
	m.AddRows(
		fieldRow("Role", orDash(data.RoleTitle)),
		fieldRow("Start date", formatDate(data.StartDate)),
		fieldRow("Employment type", orDash(data.EmploymentType)),
	)

	m.AddRows(sectionRow("DIRECT DEPOSIT"))
	m.AddRows(
		fieldRow("Bank", orDash(data.BankName)),
		fieldRow("Account type", orDash(data.AccountType)),
		fieldRow("Account", maskedAccount(data.AccountLast4)),
	)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Onboarding completed on %s. Keep this document for your records.",
				data.CompletedAt.Format("January 2, 2006")),
			props.Text{Size: 7.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(data OnboardingSummary) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Nova Creations", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Employee Onboarding Summary", props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(data.FullName, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 3,
			}),
			text.New(data.CompletedAt.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8.5, Color: colorPrimary, Top: 4,
		}),
	))
}

func fieldRow(label, value string) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(label, props.Text{
			Size: 8.5, Color: colorGray, Top: 1,
		})),
		col.New(9).Add(text.New(value, props.Text{
			Size: 8.5, Top: 1,
		})),
	)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}

func maskedAccount(last4 string) string {
	if last4 == "" {
		return "—"
	}
	return "•••• " + last4
}
