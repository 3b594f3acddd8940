// Package platform contains the provisioning adapters for the external
// systems a new account is replicated into: the learning system (lms), the
// marketplace (ecommerce) and the document system (dms). Each adapter speaks
// its platform's wire protocol but presents the same Provisioner interface,
// and never lets a failure escape as an error: every outcome, including
// timeouts and unreachable hosts, comes back as a ProvisioningOutcome so the
// coordinator's fan-out stays uniform.
package platform
