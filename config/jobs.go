package config

func (c *Config) runJobs() {
	c.scheduler.Every(1).Minute().SingletonMode().Do(c.updateIPWhiteList)
	c.scheduler.Every(1).Minute().SingletonMode().Do(c.updateParam)

	c.scheduler.StartAsync()
}

func (c *Config) updateIPWhiteList() {
	ips, err := c.wdb.GetAllAvailableIpRateWhitelist()
	if err != nil {
		log.Error("c.wdb.GetAllAvailableIpRateWhitelist()", "err", err)
		return
	}
	ipWhiteList := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		if ip.Available {
			ipWhiteList[ip.OriginOrIP] = struct{}{}
		}
	}
	c.lock.Lock()
	c.ipWhiteList = ipWhiteList
	c.lock.Unlock()
}

func (c *Config) updateParam() {
	param, err := c.wdb.GetParam()
	if err != nil {
		log.Error("c.wdb.GetParam()", "err", err)
		return
	}
	c.lock.Lock()
	c.param = param
	c.lock.Unlock()
}
