// Package e2e exposes the storefront scenarios as go tests. They hit the live
// site and only run when STORECHECK_E2E is set.
package e2e
