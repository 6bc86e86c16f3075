// Package linkscan finds broken links on a website.
// It discovers the pages of a site breadth-first, extracts every outbound
// reference from each page, validates each unique reference once, and maps
// broken references back to every page that contains them.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package linkscan
