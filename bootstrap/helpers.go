package bootstrap

import (
	"fmt"
	"os/user"
	"strconv"
)

// Principal is the resolved unprivileged identity the workload runs
// as. All fields come from the image's user database at startup; the
// account itself is provisioned at image build.
type Principal struct {
	Username string
	Uid      int
	Gid      int
	Groups   []int
}

func getGid(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, err
	}
	return gid, nil
}

// resolvePrincipal looks up the run-as account. The group defaults to
// the account's primary group unless run-as named one explicitly, and
// the supplementary groups are the account's own so the image build
// can grant membership in e.g. a shared data group.
func resolvePrincipal(username, groupname string) (*Principal, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return nil, fmt.Errorf("resolvePrincipal: unable to resolve user %s: %w", username, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, fmt.Errorf("resolvePrincipal: non-numeric uid %q for user %s", u.Uid, username)
	}

	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return nil, fmt.Errorf("resolvePrincipal: non-numeric gid %q for user %s", u.Gid, username)
	}

	if groupname != "" {
		if gid, err = getGid(groupname); err != nil {
			return nil, fmt.Errorf("resolvePrincipal: unable to resolve group %s: %w", groupname, err)
		}
	}

	gids, err := u.GroupIds()
	if err != nil {
		return nil, fmt.Errorf("resolvePrincipal: unable to list groups for %s: %w", username, err)
	}

	groups := make([]int, 0, len(gids))
	for _, g := range gids {
		n, err := strconv.Atoi(g)
		if err != nil {
			return nil, fmt.Errorf("resolvePrincipal: non-numeric group id %q for user %s", g, username)
		}
		groups = append(groups, n)
	}

	return &Principal{
		Username: username,
		Uid:      uid,
		Gid:      gid,
		Groups:   groups,
	}, nil
}
