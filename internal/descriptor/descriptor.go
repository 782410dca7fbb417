// Package descriptor maps a (module, action kind) pair to display metadata
// for the hosting application's UI. The mapping is a closed, exhaustively
// switched table: an unknown pair is reported explicitly, never returned as
// an empty descriptor. The session engine itself never reads this package.
package descriptor

import "countersign.org/internal/roles"

// Kind identifies one sensitive action within a module.
type Kind string

const (
	KindApproveMember     Kind = "approve_member"
	KindRemoveMember      Kind = "remove_member"
	KindTransferFunds     Kind = "transfer_funds"
	KindDisburseBudget    Kind = "disburse_budget"
	KindAnnounceResults   Kind = "announce_results"
	KindOpenVoting        Kind = "open_voting"
	KindPublishPost       Kind = "publish_post"
	KindRetractPost       Kind = "retract_post"
	KindAppointOfficer    Kind = "appoint_officer"
	KindRemoveOfficer     Kind = "remove_officer"
	KindAmendConstitution Kind = "amend_constitution"
	KindUpdateSettings    Kind = "update_settings"
)

// Descriptor is display metadata for one action.
type Descriptor struct {
	Title       string
	Description string
}

// Describe returns the display metadata for an action. The second return
// value is false when the kind does not belong to the module.
func Describe(m roles.Module, k Kind) (Descriptor, bool) {
	switch m {
	case roles.Members:
		switch k {
		case KindApproveMember:
			return Descriptor{"Approve Member", "Admit a pending applicant into the membership register."}, true
		case KindRemoveMember:
			return Descriptor{"Remove Member", "Strike a member from the membership register."}, true
		}
	case roles.Finances:
		switch k {
		case KindTransferFunds:
			return Descriptor{"Transfer Funds", "Move funds between organization accounts."}, true
		case KindDisburseBudget:
			return Descriptor{"Disburse Budget", "Release an approved budget line for spending."}, true
		}
	case roles.Elections:
		switch k {
		case KindAnnounceResults:
			return Descriptor{"Announce Results", "Publish the official outcome of an election."}, true
		case KindOpenVoting:
			return Descriptor{"Open Voting", "Open the ballot for an announced election."}, true
		}
	case roles.Content:
		switch k {
		case KindPublishPost:
			return Descriptor{"Publish Post", "Publish an official announcement or article."}, true
		case KindRetractPost:
			return Descriptor{"Retract Post", "Withdraw a previously published announcement."}, true
		}
	case roles.Leadership:
		switch k {
		case KindAppointOfficer:
			return Descriptor{"Appoint Officer", "Install an officer into a leadership position."}, true
		case KindRemoveOfficer:
			return Descriptor{"Remove Officer", "Remove an officer from a leadership position."}, true
		}
	case roles.Settings:
		switch k {
		case KindAmendConstitution:
			return Descriptor{"Amend Constitution", "Apply an amendment to the organization's constitution."}, true
		case KindUpdateSettings:
			return Descriptor{"Update Settings", "Change organization-wide administrative settings."}, true
		}
	}
	return Descriptor{}, false
}

// KindsFor returns the action kinds declared for a module.
func KindsFor(m roles.Module) []Kind {
	switch m {
	case roles.Members:
		return []Kind{KindApproveMember, KindRemoveMember}
	case roles.Finances:
		return []Kind{KindTransferFunds, KindDisburseBudget}
	case roles.Elections:
		return []Kind{KindAnnounceResults, KindOpenVoting}
	case roles.Content:
		return []Kind{KindPublishPost, KindRetractPost}
	case roles.Leadership:
		return []Kind{KindAppointOfficer, KindRemoveOfficer}
	case roles.Settings:
		return []Kind{KindAmendConstitution, KindUpdateSettings}
	}
	return nil
}
