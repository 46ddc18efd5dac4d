package util

// CollectorVersion is the released version of the collector. Update this
// together with the changelog when tagging a release.
const CollectorVersion = "0.3.1"

// CollectorNameAndVersion is used as the User-Agent for outgoing requests.
const CollectorNameAndVersion = "obreport-collector " + CollectorVersion
