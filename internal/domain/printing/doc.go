// Package printing contains the receipt formatting bounded context.
// It turns print envelopes into renderer-agnostic documents: custom
// attribute sections are included or suppressed against their declared
// defaults, line brands arrive fully resolved or degrade to a
// placeholder, and the same document shape serves first prints and
// reprints alike.
package printing
