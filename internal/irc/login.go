package irc

import (
	"fmt"

	"go.uber.org/zap"
)

// loginCodes are the replies that settle a registration attempt.
var loginCodes = map[ReplyCode]bool{
	RplWelcome:          true,
	ErrErroneusNickname: true,
	ErrNicknameInUse:    true,
	ErrNickCollision:    true,
	ErrPasswdMismatch:   true,
	ErrYoureBannedCreep: true,
}

var loginFailures = map[ReplyCode]string{
	ErrErroneusNickname: "The nickname %q is not allowed on this server.",
	ErrNicknameInUse:    "The nickname %q is already in use.",
	ErrNickCollision:    "The nickname %q collided with another user on the network.",
	ErrPasswdMismatch:   "The server rejected the connection password.",
	ErrYoureBannedCreep: "You are banned from this server.",
}

// login registers the connection: PASS, USER, then NICK tapped for the
// replies that decide the outcome.
func (ix *interactor) login() error {
	s := ix.sys
	cfg := s.cfg

	if cfg.Password != "" {
		if err := s.send("PASS", cfg.Password); err != nil {
			return err
		}
	}

	username, realname := cfg.Username, cfg.RealName
	if username == "" {
		username = cfg.Nick
	}
	if realname == "" {
		realname = cfg.Nick
	}
	if err := s.send("USER", username, "0", "*", realname); err != nil {
		return err
	}

	line, err := EncodeCommand("NICK", cfg.Nick)
	if err != nil {
		return err
	}
	ix.runTap(line, loginCodes, ix.loginReply)
	return nil
}

func (ix *interactor) loginReply(r *ServerReply) bool {
	s := ix.sys
	if r == nil {
		if !ix.loggedIn {
			s.errorMessage("Unknown error: unexpectedly disconnected while logging in.")
		}
		return true
	}

	if r.Code == RplWelcome {
		if err := s.handleReply(r); err != nil {
			s.bugReport(err)
		}
		ix.loggedIn = true
		nick := r.arg(0)
		if nick == "" {
			nick = s.cfg.Nick
		}
		s.identity.seed(nick)
		s.identity.register()
		ix.log.Info("logged in", zap.String("nick", nick))

		for _, ch := range s.cfg.Channels {
			if err := s.send("JOIN", ch); err != nil {
				s.errorMessage(fmt.Sprintf("Could not join %s: %v", ch, err))
			}
		}
		return true
	}

	text, ok := loginFailures[r.Code]
	if !ok {
		text = fmt.Sprintf("Unknown error (%s): unexpectedly disconnected.", r.Code)
	} else if r.Code == ErrErroneusNickname || r.Code == ErrNicknameInUse || r.Code == ErrNickCollision {
		text = fmt.Sprintf(text, s.cfg.Nick)
	}
	s.errorMessage(text)
	ix.terminate(nil)
	return true
}
