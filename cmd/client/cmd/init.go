package cmd

import (
	"gfit/cmd/client/cmd/auth"
	"gfit/cmd/client/cmd/challenge"
	"gfit/cmd/client/cmd/member"
	"gfit/cmd/client/cmd/steps"
	"gfit/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(member.MemberCmd)
	member.MemberCmd.AddCommand(member.ListCmd)
	member.MemberCmd.AddCommand(member.SelectCmd)
	member.MemberCmd.AddCommand(member.AddCmd)

	rootCmd.AddCommand(steps.StepsCmd)
	steps.StepsCmd.AddCommand(steps.SetCmd)
	steps.StepsCmd.AddCommand(steps.WeekCmd)
	steps.StepsCmd.AddCommand(steps.GoalCmd)
	steps.StepsCmd.AddCommand(steps.ExportCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(sync.WatchCmd)

	rootCmd.AddCommand(challenge.ChallengeCmd)
	challenge.ChallengeCmd.AddCommand(challenge.ListCmd)
	challenge.ChallengeCmd.AddCommand(challenge.ActiveCmd)
	challenge.ChallengeCmd.AddCommand(challenge.JoinCmd)
	challenge.ChallengeCmd.AddCommand(challenge.LeaveCmd)
	challenge.ChallengeCmd.AddCommand(challenge.LeaderboardCmd)
}
