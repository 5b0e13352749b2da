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

// Package transparency reads the XML container format used by German
// transparency software (Transparenzsoftware) to distribute signed meter
// values together with the matching public keys.
package transparency

import (
	"encoding/hex"
	"encoding/xml"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/paul-ww/ocmf-go/internal/ocmf"
)

type xmlContainer struct {
	XMLName xml.Name   `xml:"values"`
	Values  []xmlValue `xml:"value"`
}

type xmlValue struct {
	TransactionID string         `xml:"transactionId,attr"`
	Context       string         `xml:"context,attr"`
	SignedData    *xmlSignedData `xml:"signedData"`
	EncodedData   *xmlSignedData `xml:"encodedData"`
	PublicKey     *xmlPublicKey  `xml:"publicKey"`
}

type xmlSignedData struct {
	Format        string `xml:"format,attr"`
	Encoding      string `xml:"encoding,attr"`
	TransactionID string `xml:"transactionId,attr"`
	Text          string `xml:",chardata"`
}

type xmlPublicKey struct {
	Encoding string `xml:"encoding,attr"`
	Text     string `xml:",chardata"`
}

// Dataset is one signed meter value from a transparency container: the raw
// OCMF string (hex layers already removed) plus the public key the container
// ships for it, if any.
type Dataset struct {
	TransactionID string
	Context       string
	Data          string
	PublicKey     string
}

// Record parses the dataset's OCMF string.
func (d Dataset) Record() (*ocmf.OCMF, error) {
	return ocmf.Parse(d.Data)
}

// Parse reads a transparency XML document and collects every dataset that
// carries OCMF data. Values in other signed-data formats are skipped.
func Parse(data []byte) ([]Dataset, error) {
	var container xmlContainer
	if err := xml.Unmarshal(data, &container); err != nil {
		return nil, ocmf.WrapError(ocmf.KindXML, "", err)
	}

	var datasets []Dataset
	for _, v := range container.Values {
		raw, ok := extractData(v)
		if !ok {
			continue
		}
		ds := Dataset{
			TransactionID: v.TransactionID,
			Context:       v.Context,
			Data:          raw,
		}
		if v.PublicKey != nil {
			ds.PublicKey = strings.TrimSpace(v.PublicKey.Text)
		}
		datasets = append(datasets, ds)
	}
	if len(datasets) == 0 {
		return nil, ocmf.NewError(ocmf.KindNotFound, "", "no OCMF data found in transparency file")
	}
	return datasets, nil
}

// ParseFile reads a transparency XML file from disk.
func ParseFile(path string) ([]Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ocmf.WrapError(ocmf.KindXML, "", err)
	}
	return Parse(data)
}

// extractData pulls the OCMF string out of one value element. signedData
// carries it as plain text; encodedData wraps it in hex. Elements without a
// format attribute are accepted when their content is recognizably OCMF.
func extractData(v xmlValue) (string, bool) {
	if sd := v.SignedData; sd != nil {
		text := strings.TrimSpace(sd.Text)
		if text != "" && (sd.Format == "OCMF" || strings.HasPrefix(text, ocmf.Header+"|")) {
			return text, true
		}
	}
	if ed := v.EncodedData; ed != nil && ed.Format == "OCMF" {
		text := strings.TrimSpace(ed.Text)
		if strings.EqualFold(ed.Encoding, "hex") {
			decoded, err := hex.DecodeString(text)
			if err != nil || !utf8.Valid(decoded) {
				return "", false
			}
			text = strings.TrimSpace(string(decoded))
		}
		if strings.HasPrefix(text, ocmf.Header+"|") {
			return text, true
		}
	}
	return "", false
}
