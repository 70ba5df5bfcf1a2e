// Package domain contains the core types shared by the scan form, the scan
// service client and the scan service itself: the URL list a user submits and
// the per-URL security header results. The types are free of transport and
// presentation concerns.
package domain
