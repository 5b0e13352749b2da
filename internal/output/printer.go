// Copyright 2025 The ocmf-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package output renders parsed records, verification results and
// compliance findings for the terminal, with a JSON mode for scripting.
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/paul-ww/ocmf-go/internal/eichrecht"
	"github.com/paul-ww/ocmf-go/internal/ocmf"
	"github.com/paul-ww/ocmf-go/internal/transparency"
)

// Options controls rendering.
type Options struct {
	JSON    bool
	NoColor bool
	Verbose bool
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
)

func printHeader(title string) {
	headerColor.Println(title)
	headerColor.Println(strings.Repeat("─", 50))
}

func printSection(title string) {
	fmt.Println()
	labelColor.Printf("%s\n", title)
}

func printKV(label, value string, indent int) {
	if value == "" {
		return
	}
	pad := strings.Repeat("  ", indent)
	labelColor.Printf("%s%s: ", pad, label)
	fmt.Println(value)
}

// BuildRecordJSON returns the JSON-serializable map for a parsed record.
func BuildRecordJSON(rec *ocmf.OCMF) map[string]any {
	p := rec.Payload
	readings := make([]map[string]any, 0, len(p.RD))
	for _, r := range p.RD {
		entry := map[string]any{
			"time":   r.TM.String(),
			"status": string(r.ST),
		}
		if r.TX != "" {
			entry["reason"] = string(r.TX)
		}
		if r.RV != nil {
			entry["value"] = r.RV.String()
		}
		if r.RI != nil {
			entry["register"] = r.RI.String()
			if info, ok := r.RI.Info(); ok {
				entry["registerDescription"] = info.Description
			}
		}
		if r.RU != "" {
			entry["unit"] = string(r.RU)
		}
		if r.CL != nil {
			entry["cumulatedLoss"] = r.CL.String()
		}
		if r.EF != "" {
			entry["errorFlags"] = r.EF
		}
		readings = append(readings, entry)
	}

	out := map[string]any{
		"formatVersion": p.FV,
		"pagination":    string(p.PG),
		"serial":        p.SerialNumber(),
		"identification": map[string]any{
			"status": p.IS,
			"level":  string(p.IL),
			"type":   string(p.EffectiveIT()),
			"data":   p.ID,
		},
		"readings": readings,
		"signature": map[string]any{
			"algorithm": string(rec.Signature.Method()),
			"encoding":  string(rec.Signature.Encoding()),
			"mimeType":  rec.Signature.MimeType(),
			"data":      rec.Signature.SD,
		},
	}
	if p.GI != "" || p.GV != "" {
		out["gateway"] = map[string]any{"identification": p.GI, "serial": p.GS, "version": p.GV}
	}
	if p.MV != "" || p.MM != "" || p.MS != "" || p.MF != "" {
		out["meter"] = map[string]any{"vendor": p.MV, "model": p.MM, "serial": p.MS, "firmware": p.MF}
	}
	if rec.Signature.PK != "" {
		out["embeddedPublicKey"] = rec.Signature.PK
	}
	return out
}

// PrintRecord prints a decoded record to the terminal.
func PrintRecord(rec *ocmf.OCMF, opts Options) {
	if opts.JSON {
		PrintJSON(BuildRecordJSON(rec))
		return
	}

	p := rec.Payload
	printHeader("OCMF Record")

	printSection("Device")
	printKV("Gateway", strings.TrimSpace(p.GI+" "+p.GV), 1)
	printKV("Gateway Serial", p.GS, 1)
	printKV("Meter", strings.TrimSpace(p.MV+" "+p.MM), 1)
	printKV("Meter Serial", p.MS, 1)
	printKV("Meter Firmware", p.MF, 1)

	printSection("Session")
	printKV("Pagination", string(p.PG), 1)
	printKV("Identification Status", fmt.Sprintf("%t", p.IS), 1)
	printKV("Identification Level", string(p.IL), 1)
	printKV("Identification Type", string(p.EffectiveIT()), 1)
	printKV("Identification Data", p.ID, 1)
	printKV("Tariff Text", p.TT, 1)
	printKV("Charge Point", strings.TrimSpace(p.CT+" "+p.CI), 1)
	if p.LC != nil {
		printKV("Loss Compensation", fmt.Sprintf("%s %s", p.LC.LR, p.LC.LU), 1)
	}

	printSection(fmt.Sprintf("Readings (%d)", len(p.RD)))
	for i, r := range p.RD {
		dimColor.Printf("  [%d] ", i+1)
		fmt.Print(r.TM.String())
		if r.TX != "" {
			labelColor.Printf(" TX=%s", r.TX)
		}
		if r.RV != nil {
			fmt.Printf(" %s %s", r.RV, r.RU)
		}
		fmt.Printf(" ST=%s", r.ST)
		if r.EF != "" {
			errorColor.Printf(" EF=%s", r.EF)
		}
		fmt.Println()
		if opts.Verbose && r.RI != nil {
			if info, ok := r.RI.Info(); ok {
				dimColor.Printf("      %s (%s)\n", r.RI, info.Description)
			} else {
				dimColor.Printf("      %s\n", r.RI)
			}
		}
	}

	printSection("Signature")
	printKV("Algorithm", string(rec.Signature.Method()), 1)
	printKV("Encoding", string(rec.Signature.Encoding()), 1)
	if opts.Verbose {
		printKV("Data", rec.Signature.SD, 1)
	} else {
		printKV("Data", truncate(rec.Signature.SD, 48), 1)
	}
	if rec.Signature.PK != "" {
		printKV("Embedded Key", truncate(rec.Signature.PK, 48), 1)
	}

	fmt.Println()
}

// PrintVerification prints a signature verification result.
func PrintVerification(ok bool, opts Options) {
	if opts.JSON {
		PrintJSON(map[string]any{"valid": ok})
		return
	}
	if ok {
		successColor.Println("✓ Signature valid")
	} else {
		errorColor.Println("✗ Signature INVALID")
	}
}

// BuildIssuesJSON returns the JSON-serializable form of a finding list.
func BuildIssuesJSON(issues []eichrecht.Issue) map[string]any {
	list := make([]map[string]any, 0, len(issues))
	for _, i := range issues {
		entry := map[string]any{
			"code":     string(i.Code),
			"severity": string(i.Severity),
			"message":  i.Message,
		}
		if i.Field != "" {
			entry["field"] = i.Field
		}
		list = append(list, entry)
	}
	return map[string]any{
		"compliant": !eichrecht.HasErrors(issues),
		"issues":    list,
	}
}

// PrintIssues prints compliance findings.
func PrintIssues(issues []eichrecht.Issue, opts Options) {
	if opts.JSON {
		PrintJSON(BuildIssuesJSON(issues))
		return
	}
	if len(issues) == 0 {
		successColor.Println("✓ Compliant, no issues found")
		return
	}
	for _, i := range issues {
		switch i.Severity {
		case eichrecht.SeverityError:
			errorColor.Printf("✗ %s", i.Code)
		default:
			warnColor.Printf("⚠ %s", i.Code)
		}
		fmt.Printf(": %s", i.Message)
		if i.Field != "" {
			dimColor.Printf(" (%s)", i.Field)
		}
		fmt.Println()
	}
	if eichrecht.HasErrors(issues) {
		errorColor.Println("Record is NOT compliant")
	} else {
		warnColor.Println("Compliant with warnings")
	}
}

// PrintDatasets prints the datasets found in a transparency container.
func PrintDatasets(datasets []transparency.Dataset, opts Options) {
	if opts.JSON {
		list := make([]map[string]any, 0, len(datasets))
		for _, d := range datasets {
			entry := map[string]any{"data": d.Data}
			if d.TransactionID != "" {
				entry["transactionId"] = d.TransactionID
			}
			if d.Context != "" {
				entry["context"] = d.Context
			}
			if d.PublicKey != "" {
				entry["publicKey"] = d.PublicKey
			}
			list = append(list, entry)
		}
		PrintJSON(map[string]any{"datasets": list})
		return
	}

	printHeader(fmt.Sprintf("Transparency Container (%d datasets)", len(datasets)))
	for i, d := range datasets {
		fmt.Println()
		dimColor.Printf("  [%d]", i+1)
		if d.TransactionID != "" {
			labelColor.Printf(" transaction %s", d.TransactionID)
		}
		if d.Context != "" {
			dimColor.Printf(" (%s)", d.Context)
		}
		fmt.Println()
		if opts.Verbose {
			fmt.Printf("      %s\n", d.Data)
		} else {
			fmt.Printf("      %s\n", truncate(d.Data, 72))
		}
		if d.PublicKey != "" {
			dimColor.Printf("      key: %s\n", truncate(d.PublicKey, 48))
		}
	}
	fmt.Println()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
