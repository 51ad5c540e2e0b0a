package config

type WorkerKeyStruct struct {
	InvitationMailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	InvitationMailQueue: "invitation_mail_queue",
}
