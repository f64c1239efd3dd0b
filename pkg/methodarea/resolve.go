package methodarea

// ResolveMethod finds the method_info that answers an invocation of
// (name, descriptor) on ownerName, searching ownerName itself, then its
// superclass chain, then the interfaces of every class in that chain
// (the resolution order). It does not dispatch by runtime type:
// callers doing virtual/interface invocation resolve the receiver's
// actual class first and call ResolveMethod on that.
func (ma *MethodArea) ResolveMethod(ownerName, name, descriptor string) (*LoadedClass, string, error) {
	lc, err := ma.MaybeLoadClass(ownerName)
	if err != nil {
		return nil, "", err
	}

	for cur := lc; cur != nil; {
		if m := cur.File.FindMethod(name, descriptor); m != nil {
			return cur, cur.Name, nil
		}
		if cur.SuperName == "" {
			break
		}
		super, err := ma.MaybeLoadClass(cur.SuperName)
		if err != nil {
			return nil, "", err
		}
		cur = super
	}

	// Not found in the class chain; search interfaces transitively,
	// owner's own interfaces first, then its superclasses' interfaces.
	for cur := lc; cur != nil; {
		for _, ifaceName := range cur.InterfaceNames {
			if owner, found, err := ma.resolveMethodInInterface(ifaceName, name, descriptor); err != nil {
				return nil, "", err
			} else if found {
				return owner, owner.Name, nil
			}
		}
		if cur.SuperName == "" {
			break
		}
		super, err := ma.MaybeLoadClass(cur.SuperName)
		if err != nil {
			return nil, "", err
		}
		cur = super
	}

	return nil, "", &NoSuchMethod{Owner: ownerName, Name: name, Descriptor: descriptor}
}

func (ma *MethodArea) resolveMethodInInterface(ifaceName, name, descriptor string) (*LoadedClass, bool, error) {
	iface, err := ma.MaybeLoadClass(ifaceName)
	if err != nil {
		return nil, false, err
	}
	if m := iface.File.FindMethod(name, descriptor); m != nil {
		return iface, true, nil
	}
	for _, superIface := range iface.InterfaceNames {
		if owner, found, err := ma.resolveMethodInInterface(superIface, name, descriptor); err != nil {
			return nil, false, err
		} else if found {
			return owner, true, nil
		}
	}
	return nil, false, nil
}

// ResolveField finds the class that declares fieldName, searching
// ownerName then its superclass chain. Interface fields (constants) are
// not part of this interpreter's scope.
func (ma *MethodArea) ResolveField(ownerName, fieldName string) (*LoadedClass, error) {
	lc, err := ma.MaybeLoadClass(ownerName)
	if err != nil {
		return nil, err
	}

	for cur := lc; cur != nil; {
		if f := cur.File.FindField(fieldName); f != nil {
			return cur, nil
		}
		if cur.SuperName == "" {
			break
		}
		super, err := ma.MaybeLoadClass(cur.SuperName)
		if err != nil {
			return nil, err
		}
		cur = super
	}

	return nil, &NoSuchField{Owner: ownerName, Name: fieldName}
}
