package irc

import (
	"fmt"
	"strconv"
	"strings"
)

// ReplyCode is a three-digit numeric server reply.
type ReplyCode int

// String renders the code the way it appears on the wire.
func (c ReplyCode) String() string {
	return fmt.Sprintf("%03d", int(c))
}

// ParseReplyCode reads a three-digit reply code.
func ParseReplyCode(s string) (ReplyCode, bool) {
	if len(s) != 3 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return ReplyCode(n), true
}

// Numeric replies (RFC 1459, RFC 2812 and common extensions).
const (
	RplWelcome  ReplyCode = 1
	RplYourHost ReplyCode = 2
	RplCreated  ReplyCode = 3
	RplMyInfo   ReplyCode = 4
	RplISupport ReplyCode = 5

	RplTraceLink       ReplyCode = 200
	RplTraceConnecting ReplyCode = 201
	RplTraceHandshake  ReplyCode = 202
	RplTraceUnknown    ReplyCode = 203
	RplTraceOperator   ReplyCode = 204
	RplTraceUser       ReplyCode = 205
	RplTraceServer     ReplyCode = 206
	RplTraceNewType    ReplyCode = 208
	RplStatsLinkInfo   ReplyCode = 211
	RplStatsCommands   ReplyCode = 212
	RplStatsCLine      ReplyCode = 213
	RplStatsNLine      ReplyCode = 214
	RplStatsILine      ReplyCode = 215
	RplStatsKLine      ReplyCode = 216
	RplStatsYLine      ReplyCode = 218
	RplEndOfStats      ReplyCode = 219
	RplUModeIs         ReplyCode = 221
	RplStatsLLine      ReplyCode = 241
	RplStatsUptime     ReplyCode = 242
	RplStatsOLine      ReplyCode = 243
	RplStatsHLine      ReplyCode = 244
	RplStatsConn       ReplyCode = 250
	RplLUserClient     ReplyCode = 251
	RplLUserOp         ReplyCode = 252
	RplLUserUnknown    ReplyCode = 253
	RplLUserChannels   ReplyCode = 254
	RplLUserMe         ReplyCode = 255
	RplAdminMe         ReplyCode = 256
	RplAdminLoc1       ReplyCode = 257
	RplAdminLoc2       ReplyCode = 258
	RplAdminEmail      ReplyCode = 259
	RplTraceLog        ReplyCode = 261
	RplTraceEnd        ReplyCode = 262
	RplTryAgain        ReplyCode = 263
	RplLocalUsers      ReplyCode = 265
	RplGlobalUsers     ReplyCode = 266

	RplAway            ReplyCode = 301
	RplUserHost        ReplyCode = 302
	RplIsOn            ReplyCode = 303
	RplUnAway          ReplyCode = 305
	RplNowAway         ReplyCode = 306
	RplWhoisUser       ReplyCode = 311
	RplWhoisServer     ReplyCode = 312
	RplWhoisOperator   ReplyCode = 313
	RplWhowasUser      ReplyCode = 314
	RplEndOfWho        ReplyCode = 315
	RplWhoisIdle       ReplyCode = 317
	RplEndOfWhois      ReplyCode = 318
	RplWhoisChannels   ReplyCode = 319
	RplListStart       ReplyCode = 321
	RplList            ReplyCode = 322
	RplListEnd         ReplyCode = 323
	RplChannelModeIs   ReplyCode = 324
	RplCreationTime    ReplyCode = 329
	RplWhoisAccount    ReplyCode = 330
	RplNoTopic         ReplyCode = 331
	RplTopic           ReplyCode = 332
	RplTopicWhoTime    ReplyCode = 333
	RplInviting        ReplyCode = 341
	RplSummoning       ReplyCode = 342
	RplInviteList      ReplyCode = 346
	RplEndOfInviteList ReplyCode = 347
	RplExceptList      ReplyCode = 348
	RplEndOfExceptList ReplyCode = 349
	RplVersion         ReplyCode = 351
	RplWhoReply        ReplyCode = 352
	RplNamReply        ReplyCode = 353
	RplLinks           ReplyCode = 364
	RplEndOfLinks      ReplyCode = 365
	RplEndOfNames      ReplyCode = 366
	RplBanList         ReplyCode = 367
	RplEndOfBanList    ReplyCode = 368
	RplEndOfWhowas     ReplyCode = 369
	RplInfo            ReplyCode = 371
	RplMotd            ReplyCode = 372
	RplEndOfInfo       ReplyCode = 374
	RplMotdStart       ReplyCode = 375
	RplEndOfMotd       ReplyCode = 376
	RplWhoisHost       ReplyCode = 378
	RplYoureOper       ReplyCode = 381
	RplRehashing       ReplyCode = 382
	RplYoureService    ReplyCode = 383
	RplTime            ReplyCode = 391
	RplUsersStart      ReplyCode = 392
	RplUsers           ReplyCode = 393
	RplEndOfUsers      ReplyCode = 394
	RplNoUsers         ReplyCode = 395
	RplHostHidden      ReplyCode = 396

	ErrNoSuchNick        ReplyCode = 401
	ErrNoSuchServer      ReplyCode = 402
	ErrNoSuchChannel     ReplyCode = 403
	ErrCannotSendToChan  ReplyCode = 404
	ErrTooManyChannels   ReplyCode = 405
	ErrWasNoSuchNick     ReplyCode = 406
	ErrTooManyTargets    ReplyCode = 407
	ErrNoOrigin          ReplyCode = 409
	ErrNoRecipient       ReplyCode = 411
	ErrNoTextToSend      ReplyCode = 412
	ErrNoTopLevel        ReplyCode = 413
	ErrWildTopLevel      ReplyCode = 414
	ErrUnknownCommand    ReplyCode = 421
	ErrNoMotd            ReplyCode = 422
	ErrNoAdminInfo       ReplyCode = 423
	ErrFileError         ReplyCode = 424
	ErrNoNicknameGiven   ReplyCode = 431
	ErrErroneusNickname  ReplyCode = 432
	ErrNicknameInUse     ReplyCode = 433
	ErrNickCollision     ReplyCode = 436
	ErrUnavailResource   ReplyCode = 437
	ErrUserNotInChannel  ReplyCode = 441
	ErrNotOnChannel      ReplyCode = 442
	ErrUserOnChannel     ReplyCode = 443
	ErrNoLogin           ReplyCode = 444
	ErrSummonDisabled    ReplyCode = 445
	ErrUsersDisabled     ReplyCode = 446
	ErrNotRegistered     ReplyCode = 451
	ErrNeedMoreParams    ReplyCode = 461
	ErrAlreadyRegistered ReplyCode = 462
	ErrNoPermForHost     ReplyCode = 463
	ErrPasswdMismatch    ReplyCode = 464
	ErrYoureBannedCreep  ReplyCode = 465
	ErrYouWillBeBanned   ReplyCode = 466
	ErrKeySet            ReplyCode = 467
	ErrChannelIsFull     ReplyCode = 471
	ErrUnknownMode       ReplyCode = 472
	ErrInviteOnlyChan    ReplyCode = 473
	ErrBannedFromChan    ReplyCode = 474
	ErrBadChannelKey     ReplyCode = 475
	ErrBadChanMask       ReplyCode = 476
	ErrNoChanModes       ReplyCode = 477
	ErrBanListFull       ReplyCode = 478
	ErrNoPrivileges      ReplyCode = 481
	ErrChanOPrivsNeeded  ReplyCode = 482
	ErrCantKillServer    ReplyCode = 483
	ErrRestricted        ReplyCode = 484
	ErrUniqOpPrivsNeeded ReplyCode = 485
	ErrNoOperHost        ReplyCode = 491
	ErrUModeUnknownFlag  ReplyCode = 501
	ErrUsersDontMatch    ReplyCode = 502
)

// ServerReply is a decoded numeric reply. Args[0] is the target nickname.
type ServerReply struct {
	Code   ReplyCode
	Source string
	Args   []string
}

// arg returns Args[i] or "" when absent.
func (r *ServerReply) arg(i int) string {
	if i < len(r.Args) {
		return r.Args[i]
	}
	return ""
}

// rest joins the arguments from i on.
func (r *ServerReply) rest(i int) string {
	if i >= len(r.Args) {
		return ""
	}
	return strings.Join(r.Args[i:], " ")
}

// channelArg returns the first channel-shaped argument after the target.
func (r *ServerReply) channelArg() (string, int) {
	for i := 1; i < len(r.Args); i++ {
		if IsChannelName(r.Args[i]) {
			return r.Args[i], i
		}
	}
	return "", -1
}

func (r *ServerReply) String() string {
	return r.Code.String() + " " + r.rest(0)
}

// ActionKind is how a reply is routed.
type ActionKind int

const (
	// Unknown replies are absent from the table: the raw code and arguments
	// are broadcast, routed like ToChannel.
	Unknown ActionKind = iota
	Ignore
	ToIdentity
	ToChannel
	ToLocus
	Handled
)

var actionNames = [...]string{"unknown", "ignore", "identity", "channel", "locus", "handled"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "invalid"
}

// HandlerKind names the replies that need structural interpretation.
type HandlerKind int

const (
	NoHandler HandlerKind = iota
	AwayHandler
	ListHandler
	NamesHandler
	EndOfNamesHandler
	WhoHandler
	TopicHandler
	TopicWhoTimeHandler
	JoinErrorHandler
)

// Action is a tagged routing decision: Handler is set only for Handled.
type Action struct {
	Kind    ActionKind
	Handler HandlerKind
}

// Classify looks a code up in the reply table. Codes absent from the table
// classify as Unknown.
func Classify(code ReplyCode) Action {
	if a, ok := replyTable[code]; ok {
		return a
	}
	return Action{Kind: Unknown}
}
