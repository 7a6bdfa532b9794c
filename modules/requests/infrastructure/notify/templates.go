package notify

// builtinTemplates holds the message bodies keyed by template id. Kept as
// code rather than files: the set is small and changes with the pipeline.
const builtinTemplates = `
{{define "request_approved" -}}
Your {{.Type}} request {{.ID}} has been approved.
{{- end}}

{{define "request_rejected" -}}
Your {{.Type}} request {{.ID}} has been rejected.
{{- end}}
`
