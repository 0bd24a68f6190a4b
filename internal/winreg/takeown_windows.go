//go:build windows

package winreg

import (
	"golang.org/x/sys/windows"

	"github.com/gersonkurz/regkit/pkg/types"
)

const (
	seTakeOwnershipPrivilege = "SeTakeOwnershipPrivilege"
	seRestorePrivilege       = "SeRestorePrivilege"
)

// takeOwnership makes the key at path deletable by the calling user:
// enable the take-ownership and restore privileges, fetch the caller's
// identity, reassign the key's owner, then replace its DACL granting the
// caller full control. Called at most once per key by the recursive
// delete before its single retry.
func takeOwnership(path string) error {
	objName, err := securityObjectName(path)
	if err != nil {
		return err
	}
	if err := enablePrivileges(seTakeOwnershipPrivilege, seRestorePrivilege); err != nil {
		return &types.Error{Kind: types.ErrKindAccess, Msg: "cannot enable privileges", Err: err}
	}
	sid, err := currentUserSID()
	if err != nil {
		return &types.Error{Kind: types.ErrKindAccess, Msg: "cannot determine caller identity", Err: err}
	}

	if err := windows.SetNamedSecurityInfo(objName, windows.SE_REGISTRY_KEY,
		windows.OWNER_SECURITY_INFORMATION, sid, nil, nil, nil); err != nil {
		return mapErr("take ownership of", path, err)
	}

	entries := []windows.EXPLICIT_ACCESS{{
		AccessPermissions: windows.KEY_ALL_ACCESS,
		AccessMode:        windows.GRANT_ACCESS,
		Inheritance:       windows.SUB_CONTAINERS_AND_OBJECTS_INHERIT,
		Trustee: windows.TRUSTEE{
			TrusteeForm:  windows.TRUSTEE_IS_SID,
			TrusteeType:  windows.TRUSTEE_IS_USER,
			TrusteeValue: windows.TrusteeValueFromSID(sid),
		},
	}}
	dacl, err := windows.ACLFromEntries(entries, nil)
	if err != nil {
		return &types.Error{Kind: types.ErrKindAccess, Msg: "cannot build DACL", Err: err}
	}
	if err := windows.SetNamedSecurityInfo(objName, windows.SE_REGISTRY_KEY,
		windows.DACL_SECURITY_INFORMATION, nil, nil, dacl, nil); err != nil {
		return mapErr("replace DACL of", path, err)
	}
	return nil
}

// securityObjectName maps a registry path to the object-name form used by
// SetNamedSecurityInfo (e.g. HKLM\Software -> MACHINE\Software).
func securityObjectName(path string) (string, error) {
	hive, rest, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	if hive.secName == "" {
		return "", &types.Error{Kind: types.ErrKindUnsupported, Msg: hive.Name + " does not support named security"}
	}
	if rest == "" {
		return hive.secName, nil
	}
	return hive.secName + "\\" + rest, nil
}

func enablePrivileges(names ...string) error {
	var token windows.Token
	err := windows.OpenProcessToken(windows.CurrentProcess(),
		windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token)
	if err != nil {
		return err
	}
	defer token.Close()

	for _, name := range names {
		namePtr, err := windows.UTF16PtrFromString(name)
		if err != nil {
			return err
		}
		var luid windows.LUID
		if err := windows.LookupPrivilegeValue(nil, namePtr, &luid); err != nil {
			return err
		}
		tp := windows.Tokenprivileges{PrivilegeCount: 1}
		tp.Privileges[0] = windows.LUIDAndAttributes{
			Luid:       luid,
			Attributes: windows.SE_PRIVILEGE_ENABLED,
		}
		if err := windows.AdjustTokenPrivileges(token, false, &tp, 0, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func currentUserSID() (*windows.SID, error) {
	user, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err != nil {
		return nil, err
	}
	return user.User.Sid, nil
}
