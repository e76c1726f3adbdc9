package entity

// Identity is an opaque payable account identity. Funds are only ever moved
// towards an Identity through the treasury, custody only through the registry.
type Identity string

// NoIdentity is the zero identity. A listing whose Owner is NoIdentity has not
// reached a terminal state yet.
const NoIdentity Identity = ""

func (i Identity) Zero() bool {
	return i == NoIdentity
}

func (i Identity) String() string {
	return string(i)
}
