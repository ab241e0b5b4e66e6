package urls

// ECPReference is the External Control Protocol reference: keypress names,
// app queries and the network access setting that gates them.
const ECPReference = "https://developer.roku.com/docs/developer-program/dev-tools/external-control-api.md"
