/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package ui

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms maps lowercase tokens to their display form. Plain title casing
// would render these as ordinary words.
var acronyms = map[string]string{
	"coco": "CoCo",
	"wsl":  "WSL",
	"kvm":  "KVM",
	"crd":  "CRD",
	"oci":  "OCI",
}

// TitleCase renders a lowercase phrase as a display title, preserving domain
// acronyms. Words already containing uppercase letters pass through
// unchanged.
func TitleCase(phrase string) string {
	titleCaser := cases.Title(language.English)
	words := strings.Fields(phrase)
	for i, w := range words {
		if a, ok := acronyms[strings.ToLower(w)]; ok {
			words[i] = a
			continue
		}
		if w == strings.ToLower(w) {
			words[i] = titleCaser.String(w)
		}
	}
	return strings.Join(words, " ")
}
