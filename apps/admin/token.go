package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
)

var roleKinds = map[string]role.Kind{
	"admin":   role.Admin,
	"mentor":  role.Mentor,
	"student": role.Student,
}

// issueToken prints a session token signed with the configured secret key.
func (cli *commandLine) issueToken(roleName, uname string, ttl time.Duration) error {
	k, ok := roleKinds[core.CleanString(roleName, true /* lower */)]
	if !ok {
		return errors.Errorf("unknown role %q", roleName)
	}
	uname = core.CleanString(uname, true /* lower */)

	claims := role.NewClaims(cli.conf.AppName, uname, uname, k, ttl)
	token, err := role.GenerateToken(claims, []byte(cli.conf.SecretKey))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
