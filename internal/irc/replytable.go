package irc

var (
	ignore     = Action{Kind: Ignore}
	toIdentity = Action{Kind: ToIdentity}
	toChannel  = Action{Kind: ToChannel}
	toLocus    = Action{Kind: ToLocus}
)

func handled(h HandlerKind) Action {
	return Action{Kind: Handled, Handler: h}
}

// replyTable is the single source of truth for routing numeric replies.
var replyTable = map[ReplyCode]Action{
	RplWelcome:  toIdentity,
	RplYourHost: toIdentity,
	RplCreated:  toIdentity,
	RplMyInfo:   toIdentity,
	RplISupport: ignore,

	RplTraceLink:       toIdentity,
	RplTraceConnecting: toIdentity,
	RplTraceHandshake:  toIdentity,
	RplTraceUnknown:    toIdentity,
	RplTraceOperator:   toIdentity,
	RplTraceUser:       toIdentity,
	RplTraceServer:     toIdentity,
	RplTraceNewType:    toIdentity,
	RplStatsLinkInfo:   toIdentity,
	RplStatsCommands:   toIdentity,
	RplStatsCLine:      toIdentity,
	RplStatsNLine:      toIdentity,
	RplStatsILine:      toIdentity,
	RplStatsKLine:      toIdentity,
	RplStatsYLine:      toIdentity,
	RplEndOfStats:      ignore,
	RplUModeIs:         toIdentity,
	RplStatsLLine:      toIdentity,
	RplStatsUptime:     toIdentity,
	RplStatsOLine:      toIdentity,
	RplStatsHLine:      toIdentity,
	RplStatsConn:       toIdentity,
	RplLUserClient:     toIdentity,
	RplLUserOp:         toIdentity,
	RplLUserUnknown:    toIdentity,
	RplLUserChannels:   toIdentity,
	RplLUserMe:         toIdentity,
	RplAdminMe:         toIdentity,
	RplAdminLoc1:       toIdentity,
	RplAdminLoc2:       toIdentity,
	RplAdminEmail:      toIdentity,
	RplTraceLog:        toIdentity,
	RplTraceEnd:        ignore,
	RplTryAgain:        toIdentity,
	RplLocalUsers:      toIdentity,
	RplGlobalUsers:     toIdentity,

	RplAway:            handled(AwayHandler),
	RplUserHost:        toIdentity,
	RplIsOn:            toIdentity,
	RplUnAway:          toIdentity,
	RplNowAway:         toIdentity,
	RplWhoisUser:       toLocus,
	RplWhoisServer:     toLocus,
	RplWhoisOperator:   toLocus,
	RplWhowasUser:      toLocus,
	RplEndOfWho:        ignore,
	RplWhoisIdle:       toLocus,
	RplEndOfWhois:      ignore,
	RplWhoisChannels:   toLocus,
	RplListStart:       ignore,
	RplList:            handled(ListHandler),
	RplListEnd:         ignore,
	RplChannelModeIs:   toLocus,
	RplCreationTime:    toLocus,
	RplWhoisAccount:    toLocus,
	RplNoTopic:         toLocus,
	RplTopic:           handled(TopicHandler),
	RplTopicWhoTime:    handled(TopicWhoTimeHandler),
	RplInviting:        toChannel,
	RplSummoning:       toIdentity,
	RplInviteList:      toLocus,
	RplEndOfInviteList: ignore,
	RplExceptList:      toLocus,
	RplEndOfExceptList: ignore,
	RplVersion:         toIdentity,
	RplWhoReply:        handled(WhoHandler),
	RplNamReply:        handled(NamesHandler),
	RplLinks:           toIdentity,
	RplEndOfLinks:      ignore,
	RplEndOfNames:      handled(EndOfNamesHandler),
	RplBanList:         toLocus,
	RplEndOfBanList:    ignore,
	RplEndOfWhowas:     ignore,
	RplInfo:            toIdentity,
	RplMotd:            toIdentity,
	RplEndOfInfo:       ignore,
	RplMotdStart:       toIdentity,
	RplEndOfMotd:       ignore,
	RplWhoisHost:       toLocus,
	RplYoureOper:       toIdentity,
	RplRehashing:       toIdentity,
	RplYoureService:    toIdentity,
	RplTime:            toIdentity,
	RplUsersStart:      toIdentity,
	RplUsers:           toIdentity,
	RplEndOfUsers:      ignore,
	RplNoUsers:         toIdentity,
	RplHostHidden:      toIdentity,

	ErrNoSuchNick:        toLocus,
	ErrNoSuchServer:      toIdentity,
	ErrNoSuchChannel:     toLocus,
	ErrCannotSendToChan:  toLocus,
	ErrTooManyChannels:   handled(JoinErrorHandler),
	ErrWasNoSuchNick:     toLocus,
	ErrTooManyTargets:    toIdentity,
	ErrNoOrigin:          toIdentity,
	ErrNoRecipient:       toIdentity,
	ErrNoTextToSend:      toIdentity,
	ErrNoTopLevel:        toIdentity,
	ErrWildTopLevel:      toIdentity,
	ErrUnknownCommand:    toIdentity,
	ErrNoMotd:            toIdentity,
	ErrNoAdminInfo:       toIdentity,
	ErrFileError:         toIdentity,
	ErrNoNicknameGiven:   toIdentity,
	ErrErroneusNickname:  toIdentity,
	ErrNicknameInUse:     toIdentity,
	ErrNickCollision:     toIdentity,
	ErrUnavailResource:   toIdentity,
	ErrUserNotInChannel:  toChannel,
	ErrNotOnChannel:      toLocus,
	ErrUserOnChannel:     toChannel,
	ErrNoLogin:           toLocus,
	ErrSummonDisabled:    toIdentity,
	ErrUsersDisabled:     toIdentity,
	ErrNotRegistered:     toIdentity,
	ErrNeedMoreParams:    toIdentity,
	ErrAlreadyRegistered: toIdentity,
	ErrNoPermForHost:     toIdentity,
	ErrPasswdMismatch:    toIdentity,
	ErrYoureBannedCreep:  toIdentity,
	ErrYouWillBeBanned:   toIdentity,
	ErrKeySet:            toLocus,
	ErrChannelIsFull:     handled(JoinErrorHandler),
	ErrUnknownMode:       toIdentity,
	ErrInviteOnlyChan:    handled(JoinErrorHandler),
	ErrBannedFromChan:    handled(JoinErrorHandler),
	ErrBadChannelKey:     handled(JoinErrorHandler),
	ErrBadChanMask:       toChannel,
	ErrNoChanModes:       toChannel,
	ErrBanListFull:       toChannel,
	ErrNoPrivileges:      toIdentity,
	ErrChanOPrivsNeeded:  toLocus,
	ErrCantKillServer:    toIdentity,
	ErrRestricted:        toIdentity,
	ErrUniqOpPrivsNeeded: toIdentity,
	ErrNoOperHost:        toIdentity,
	ErrUModeUnknownFlag:  toIdentity,
	ErrUsersDontMatch:    toIdentity,
}
