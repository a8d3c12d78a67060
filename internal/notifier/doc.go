// Package notifier announces upcoming sessions on external channels.
//
// A Notifier receives one Announcement per time slot. TwitterNotifier posts one tweet
// per session; DryRunNotifier prints what would be posted.
package notifier
